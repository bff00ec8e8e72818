package newitem

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/shared"
	"github.com/almoxarifado/catalogo/internal/view"
)

const pagePath = "/itens/novo"

const (
	msgCreated      = "Item cadastrado com sucesso!"
	msgCreateFailed = "Erro ao cadastrar item. Tente novamente."
)

// Handler exposes the registration page endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

type pageData struct {
	State State
	Units []catalog.Unit
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	st := LoadState(shared.SessionFromContext(r.Context()))
	h.render(w, r, "pages/item_form.html", pageData{State: st, Units: catalog.CreateUnits()})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	st := LoadState(sess)
	for _, field := range catalog.FormFields {
		if _, ok := r.PostForm[field]; !ok {
			continue
		}
		_ = st.Change(field, r.PostFormValue(field))
	}

	err := h.service.Submit(r.Context(), &st)
	switch {
	case err == nil:
		h.logger.Info("catalog item created")
		sess.AddFlash(shared.FlashMessage{Kind: shared.FlashSuccess, Message: msgCreated})
	case errors.Is(err, ErrInvalidForm):
	default:
		h.logger.Error("submit catalog item", slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: shared.FlashError, Message: msgCreateFailed})
	}
	h.save(w, r, sess, st)
}

func (h *Handler) changeField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	st := LoadState(sess)
	if err := st.Change(r.PostFormValue("campo"), r.PostFormValue("valor")); err != nil {
		http.Error(w, "Campo do formulário desconhecido", http.StatusBadRequest)
		return
	}
	h.save(w, r, sess, st)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *shared.Session, st State) {
	if err := SaveState(sess, st); err != nil {
		h.logger.Error("save item form state", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, pagePath, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Cadastro de Item",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, http.StatusOK, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
