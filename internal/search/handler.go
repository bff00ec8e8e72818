package search

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/platform/httpx"
	"github.com/almoxarifado/catalogo/internal/shared"
	"github.com/almoxarifado/catalogo/internal/view"
)

const pagePath = "/itens/consulta"

var filterFields = []string{
	catalog.FilterCode,
	catalog.FilterDescription,
	catalog.FilterSupplier,
	catalog.FilterUnit,
	catalog.FilterMinPrice,
	catalog.FilterMaxPrice,
}

// Handler wires HTTP endpoints of the lookup page.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

type pageData struct {
	State         State
	ActiveFilters int
	Units         []catalog.Unit
	PreviewTotal  int
}

type detailData struct {
	Item catalog.Item
}

type errorData struct {
	Status  int
	Message string
}

type previewResponse struct {
	ActiveFilters int            `json:"active_filters"`
	Total         int            `json:"total"`
	Items         []catalog.Item `json:"items"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	st := LoadState(shared.SessionFromContext(r.Context()))
	h.render(w, r, http.StatusOK, "pages/search.html", "Consulta de Itens", pageData{
		State:         st,
		ActiveFilters: st.ActiveFilters(),
		Units:         catalog.SearchUnits(),
		PreviewTotal:  len(st.Preview()),
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	st := LoadState(sess)
	for _, field := range filterFields {
		if err := st.SetFilter(field, r.PostFormValue(field)); err != nil {
			h.logger.Error("apply filter", slog.String("field", field), slog.Any("error", err))
		}
	}

	h.service.Run(r.Context(), &st)
	h.logger.Info("catalog search",
		slog.Int("active_filters", st.ActiveFilters()),
		slog.Int("results", len(st.Results)),
	)
	h.save(w, r, sess, st)
}

func (h *Handler) changeFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	st := LoadState(sess)
	if err := st.SetFilter(r.PostFormValue("campo"), r.PostFormValue("valor")); err != nil {
		http.Error(w, "Campo de filtro desconhecido", http.StatusBadRequest)
		return
	}
	h.save(w, r, sess, st)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	st := LoadState(sess)
	st.Clear()
	h.save(w, r, sess, st)
}

func (h *Handler) togglePanel(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	st := LoadState(sess)
	st.TogglePanel()
	h.save(w, r, sess, st)
}

// preview answers the local filter over the demonstration catalog as JSON.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var criteria catalog.FilterCriteria
	query := r.URL.Query()
	for _, field := range filterFields {
		_ = criteria.Set(field, query.Get(field))
	}
	items := catalog.Filter(catalog.MockItems(), criteria)
	httpx.JSON(w, http.StatusOK, previewResponse{
		ActiveFilters: criteria.ActiveCount(),
		Total:         len(items),
		Items:         items,
	})
}

// Detail renders a single remote item.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.service.Item(r.Context(), id)
	switch {
	case err == nil:
		h.render(w, r, http.StatusOK, "pages/item_detail.html", "Item "+item.Code, detailData{Item: item})
	case errors.Is(err, httpx.ErrNotFound), errors.Is(err, httpx.ErrValidation):
		h.render(w, r, http.StatusNotFound, "pages/error.html", "Item não encontrado", errorData{
			Status:  http.StatusNotFound,
			Message: "Item não encontrado.",
		})
	default:
		h.logger.Error("get catalog item", slog.String("id", id), slog.Any("error", err))
		h.render(w, r, http.StatusBadGateway, "pages/error.html", "Erro", errorData{
			Status:  http.StatusBadGateway,
			Message: "Não foi possível carregar o item. Tente novamente.",
		})
	}
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *shared.Session, st State) {
	if err := SaveState(sess, st); err != nil {
		h.logger.Error("save search state", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, pagePath, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, template, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, status, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
