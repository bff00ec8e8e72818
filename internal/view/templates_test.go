package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almoxarifado/catalogo/internal/shared"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderHomeWithFlash(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = engine.Render(res, http.StatusOK, "pages/home.html", TemplateData{
		Title:     "Início",
		CSRFToken: "tok",
		Flash:     &shared.FlashMessage{Kind: shared.FlashSuccess, Message: "Item cadastrado com sucesso!"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Header().Get("Content-Type"), "text/html")
	body := res.Body.String()
	assert.Contains(t, body, "flash-success")
	assert.Contains(t, body, "Item cadastrado com sucesso!")
	assert.Contains(t, body, `/itens/consulta`)
}

func TestRenderErrorPageStatus(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = engine.Render(res, http.StatusNotFound, "pages/error.html", TemplateData{
		Data: map[string]any{"Status": 404, "Message": "Item não encontrado."},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "Item não encontrado.")
}

func TestRenderUnknownTemplateWritesNothing(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = engine.Render(res, http.StatusOK, "pages/missing.html", TemplateData{})
	assert.Error(t, err)
	assert.Empty(t, res.Body.String())
}

func TestNilEngine(t *testing.T) {
	var engine *Engine
	assert.Error(t, engine.Render(httptest.NewRecorder(), http.StatusOK, "pages/home.html", TemplateData{}))
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = engine.Render(res, http.StatusOK, "pages/missing.html", TemplateData{})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
	assert.Empty(t, res.Body.String())
}

func TestNavMarksCurrentSection(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	require.NoError(t, engine.Render(res, http.StatusOK, "pages/home.html", TemplateData{CurrentPath: "/itens/novo"}))
	assert.Contains(t, res.Body.String(), `href="/itens/novo" class="active"`)
	assert.NotContains(t, res.Body.String(), `href="/itens/consulta" class="active"`)
}
