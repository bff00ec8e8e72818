package newitem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/catalog/remote"
)

// ErrInvalidForm is returned when the form still carries field errors.
var ErrInvalidForm = errors.New("newitem: invalid form")

// Creator posts new items to the remote catalog.
type Creator interface {
	Create(ctx context.Context, item remote.NewItem) error
}

// Invalidator drops cached search responses.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Enqueuer schedules follow-up work for a created item.
type Enqueuer interface {
	EnqueueItemCreated(ctx context.Context, code string) error
}

// Service validates and submits registration forms.
type Service struct {
	creator     Creator
	invalidator Invalidator
	enqueuer    Enqueuer
	logger      *slog.Logger
}

// NewService constructs a Service. invalidator and enqueuer may be nil.
func NewService(creator Creator, invalidator Invalidator, enqueuer Enqueuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{creator: creator, invalidator: invalidator, enqueuer: enqueuer, logger: logger}
}

// Submit validates st.Form and posts it. Validation errors are stored in st
// and reported as ErrInvalidForm. On success the form is reset; on any other
// failure it is kept as typed.
func (s *Service) Submit(ctx context.Context, st *State) error {
	errs, ok := catalog.ValidateForm(st.Form)
	st.Errors = errs
	if !ok {
		return ErrInvalidForm
	}

	item, err := toNewItem(st.Form)
	if err != nil {
		return err
	}

	st.Loading = true
	defer func() { st.Loading = false }()
	if err := s.creator.Create(ctx, item); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	st.Reset()
	s.afterCreate(ctx, item.Codigo)
	return nil
}

func (s *Service) afterCreate(ctx context.Context, code string) {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("invalidate search cache", slog.Any("error", err))
		}
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueItemCreated(ctx, code); err != nil {
			s.logger.Warn("enqueue item created", slog.String("codigo", code), slog.Any("error", err))
		}
	}
}

// toNewItem posts the text fields as typed; trimming only decides validity.
func toNewItem(form catalog.ItemForm) (remote.NewItem, error) {
	price, ok := catalog.ParseAmount(form.UnitPrice)
	if !ok {
		return remote.NewItem{}, ErrInvalidForm
	}
	return remote.NewItem{
		Codigo:        form.Code,
		Descricao:     form.Description,
		UnidadeMedida: form.Unit,
		ValorUnitario: price,
		Fornecedor:    form.Supplier,
	}, nil
}
