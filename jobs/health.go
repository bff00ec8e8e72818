package jobs

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/almoxarifado/catalogo/internal/platform/httpx"
)

// QueueInspector reports queue statistics; *asynq.Inspector satisfies it.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// QueueHealth is a snapshot of the default queue.
type QueueHealth struct {
	Queue          string  `json:"queue"`
	Pending        int     `json:"pending"`
	Active         int     `json:"active"`
	Scheduled      int     `json:"scheduled"`
	Retry          int     `json:"retry"`
	Archived       int     `json:"archived"`
	ProcessedToday int     `json:"processed_today"`
	FailedToday    int     `json:"failed_today"`
	LatencySeconds float64 `json:"latency_seconds"`
	Paused         bool    `json:"paused"`
}

func (h QueueHealth) String() string {
	return fmt.Sprintf("queue=%s pending=%d active=%d scheduled=%d retry=%d archived=%d processed_today=%d failed_today=%d latency=%.1fs paused=%t",
		h.Queue, h.Pending, h.Active, h.Scheduled, h.Retry, h.Archived, h.ProcessedToday, h.FailedToday, h.LatencySeconds, h.Paused)
}

// InspectQueue snapshots the default queue. A nil inspector yields an empty
// snapshot.
func InspectQueue(inspector QueueInspector) (QueueHealth, error) {
	out := QueueHealth{Queue: QueueDefault}
	if inspector == nil {
		return out, nil
	}
	info, err := inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		return out, fmt.Errorf("%w: queue %s: %v", httpx.ErrUnavailable, QueueDefault, err)
	}
	if info == nil {
		return out, nil
	}
	return QueueHealth{
		Queue:          info.Queue,
		Pending:        info.Pending,
		Active:         info.Active,
		Scheduled:      info.Scheduled,
		Retry:          info.Retry,
		Archived:       info.Archived,
		ProcessedToday: info.Processed,
		FailedToday:    info.Failed,
		LatencySeconds: info.Latency.Seconds(),
		Paused:         info.Paused,
	}, nil
}

// Handler exposes the queue snapshot over HTTP.
type Handler struct {
	inspector QueueInspector
	logger    *slog.Logger
}

// NewHandler constructs the /jobs handler. inspector may be nil.
func NewHandler(inspector QueueInspector, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{inspector: inspector, logger: logger}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	snapshot, err := InspectQueue(h.inspector)
	if err != nil {
		h.logger.Warn("jobs health", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snapshot)
}
