package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/project"
	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/invoicing"
	"github.com/jhoicas/projectdesk-api/pkg/money"
)

// InvoiceUseCase es el almacén de facturas de un proyecto: carga el blob del
// proyecto, aplica una operación de ciclo de vida o de formulario y lo guarda.
// Las escrituras del mismo proyecto se serializan a través del store compartido.
type InvoiceUseCase struct {
	store *project.Store
	money *money.Formatter
	log   zerolog.Logger
	now   func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. Un clock nil significa time.Now.
func NewInvoiceUseCase(
	store *project.Store,
	formatter *money.Formatter,
	log zerolog.Logger,
	clock func() time.Time,
) *InvoiceUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &InvoiceUseCase{
		store: store,
		money: formatter,
		log:   log,
		now:   clock,
	}
}

// LoadInvoices devuelve la colección persistida, o una vacía.
func (uc *InvoiceUseCase) LoadInvoices(ctx context.Context, projectID string) ([]entity.Invoice, error) {
	blob, err := uc.store.Load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if blob.Invoices == nil {
		return []entity.Invoice{}, nil
	}
	return blob.Invoices, nil
}

// SaveInvoices reemplaza la colección persistida. Las demás secciones del blob se conservan.
func (uc *InvoiceUseCase) SaveInvoices(ctx context.Context, projectID string, invoices []entity.Invoice) error {
	if err := project.CheckID(projectID); err != nil {
		return err
	}
	for _, inv := range invoices {
		if err := inv.Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	return uc.mutate(ctx, projectID, func(blob *entity.ProjectBlob) error {
		blob.Invoices = invoices
		return nil
	})
}

// List devuelve todas las facturas en el orden guardado.
func (uc *InvoiceUseCase) List(ctx context.Context, projectID string) (*dto.InvoiceListResponse, error) {
	invoices, err := uc.LoadInvoices(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{Items: make([]dto.InvoiceResponse, 0, len(invoices)), Total: len(invoices)}
	for _, inv := range invoices {
		out.Items = append(out.Items, uc.toResponse(inv))
	}
	return out, nil
}

// Find devuelve una entidad de factura.
func (uc *InvoiceUseCase) Find(ctx context.Context, projectID, invoiceID string) (entity.Invoice, error) {
	invoices, err := uc.LoadInvoices(ctx, projectID)
	if err != nil {
		return entity.Invoice{}, err
	}
	i := indexOf(invoices, invoiceID)
	if i < 0 {
		return entity.Invoice{}, domain.ErrNotFound
	}
	return invoices[i], nil
}

// Get devuelve una factura con la etiqueta de su siguiente acción.
func (uc *InvoiceUseCase) Get(ctx context.Context, projectID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.Find(ctx, projectID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(inv)
	return &resp, nil
}

// Create guarda una factura nueva del formulario y la agrega a la colección.
func (uc *InvoiceUseCase) Create(ctx context.Context, projectID string, req dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	draft, err := toDraft(req)
	if err != nil {
		return nil, err
	}
	var created entity.Invoice
	err = uc.mutate(ctx, projectID, func(blob *entity.ProjectBlob) error {
		inv, err := invoicing.NewInvoice(draft, uc.now())
		if err != nil {
			return err
		}
		blob.Invoices = append(blob.Invoices, inv)
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("project_id", projectID).Str("invoice_id", created.ID).
		Str("type", string(created.InvoiceType)).Str("method", string(created.DeliveryMethod)).
		Msg("invoice created")
	resp := uc.toResponse(created)
	return &resp, nil
}

// Update aplica el formulario a una factura existente y conserva su identidad.
func (uc *InvoiceUseCase) Update(ctx context.Context, projectID, invoiceID string, req dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	draft, err := toDraft(req)
	if err != nil {
		return nil, err
	}
	return uc.replace(ctx, projectID, invoiceID, func(inv entity.Invoice, now time.Time) (entity.Invoice, error) {
		return invoicing.ApplyEdit(inv, draft, now)
	})
}

// Delete elimina la factura de forma definitiva.
func (uc *InvoiceUseCase) Delete(ctx context.Context, projectID, invoiceID string) error {
	err := uc.mutate(ctx, projectID, func(blob *entity.ProjectBlob) error {
		i := indexOf(blob.Invoices, invoiceID)
		if i < 0 {
			return domain.ErrNotFound
		}
		blob.Invoices = append(blob.Invoices[:i:i], blob.Invoices[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("project_id", projectID).Str("invoice_id", invoiceID).Msg("invoice deleted")
	return nil
}

// AdvanceStatus avanza un estado una factura por email.
func (uc *InvoiceUseCase) AdvanceStatus(ctx context.Context, projectID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.replace(ctx, projectID, invoiceID, invoicing.AdvanceStatus)
}

// SetEtimadStage mueve una factura Etimad a stage, o a la siguiente etapa si
// stage viene vacío. Avanzar después de la etapa final no hace nada.
func (uc *InvoiceUseCase) SetEtimadStage(ctx context.Context, projectID, invoiceID, stage string) (*dto.InvoiceResponse, error) {
	return uc.replace(ctx, projectID, invoiceID, func(inv entity.Invoice, now time.Time) (entity.Invoice, error) {
		target := entity.EtimadStage(strings.TrimSpace(stage))
		if inv.DeliveryMethod != entity.DeliveryEtimad {
			return invoicing.AdvanceEtimadStage(inv, target, now)
		}
		if target == "" {
			next, ok := invoicing.NextEtimadStage(inv.EtimadStage)
			if !ok {
				return inv, nil
			}
			target = next
		}
		if !target.Valid() {
			return inv, fmt.Errorf("%w: etimad stage %q", domain.ErrInvalidInput, stage)
		}
		return invoicing.AdvanceEtimadStage(inv, target, now)
	})
}

// SetCustomStage es SetEtimadStage para la vía de entrega personalizada. Nunca
// toca el estado ni las fechas.
func (uc *InvoiceUseCase) SetCustomStage(ctx context.Context, projectID, invoiceID, stage string) (*dto.InvoiceResponse, error) {
	return uc.replace(ctx, projectID, invoiceID, func(inv entity.Invoice, now time.Time) (entity.Invoice, error) {
		target := entity.CustomStage(strings.TrimSpace(stage))
		if inv.DeliveryMethod != entity.DeliveryCustom {
			return invoicing.AdvanceCustomStage(inv, target, now)
		}
		if target == "" {
			next, ok := invoicing.NextCustomStage(inv.CustomStage)
			if !ok {
				return inv, nil
			}
			target = next
		}
		if !target.Valid() {
			return inv, fmt.Errorf("%w: custom stage %q", domain.ErrInvalidInput, stage)
		}
		return invoicing.AdvanceCustomStage(inv, target, now)
	})
}

// Summary devuelve los totales del tablero de un proyecto.
func (uc *InvoiceUseCase) Summary(ctx context.Context, projectID string) (*dto.SummaryResponse, error) {
	invoices, err := uc.LoadInvoices(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s := invoicing.Summarize(invoices)
	return &dto.SummaryResponse{
		Total:                s.Total,
		Collected:            s.Collected,
		CollectedDisplay:     uc.format(s.Collected),
		CollectedCount:       s.CollectedCount,
		Sent:                 s.Sent,
		SentDisplay:          uc.format(s.Sent),
		Client:               s.Client,
		ClientCount:          s.ClientCount,
		ClientCollected:      s.ClientCollected,
		ClientCollectedCount: s.ClientCollectedCount,
		Outstanding:          s.Outstanding,
		OutstandingDisplay:   uc.format(s.Outstanding),
		Vendor:               s.Vendor,
		VendorCount:          s.VendorCount,
		VendorPaid:           s.VendorPaid,
		VendorPaidCount:      s.VendorPaidCount,
		VendorPaidDisplay:    uc.format(s.VendorPaid),
		VendorUnpaid:         s.VendorUnpaid,
		VendorUnpaidDisplay:  uc.format(s.VendorUnpaid),
		Currency:             uc.currency(),
	}, nil
}

// FormatAmount muestra un valor en la moneda configurada.
func (uc *InvoiceUseCase) FormatAmount(d decimal.Decimal) string {
	return uc.format(d)
}

// ── internos ───────────────────────────────────────────────────────────────────

// mutate ejecuta fn a través del store del proyecto y registra los fallos de almacenamiento.
func (uc *InvoiceUseCase) mutate(ctx context.Context, projectID string, fn func(blob *entity.ProjectBlob) error) error {
	err := uc.store.Update(ctx, projectID, fn)
	if errors.Is(err, domain.ErrStorage) {
		uc.log.Error().Err(err).Str("project_id", projectID).Msg("save project blob")
	}
	return err
}

// replace aplica op a una factura en su lugar y devuelve el registro nuevo.
func (uc *InvoiceUseCase) replace(
	ctx context.Context,
	projectID, invoiceID string,
	op func(inv entity.Invoice, now time.Time) (entity.Invoice, error),
) (*dto.InvoiceResponse, error) {
	var updated entity.Invoice
	err := uc.mutate(ctx, projectID, func(blob *entity.ProjectBlob) error {
		i := indexOf(blob.Invoices, invoiceID)
		if i < 0 {
			return domain.ErrNotFound
		}
		next, err := op(blob.Invoices[i], uc.now())
		if err != nil {
			return err
		}
		blob.Invoices[i] = next
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(updated)
	return &resp, nil
}

func (uc *InvoiceUseCase) format(d decimal.Decimal) string {
	if uc.money == nil {
		return d.StringFixed(2)
	}
	return uc.money.Format(d)
}

func (uc *InvoiceUseCase) currency() string {
	if uc.money == nil {
		return ""
	}
	return uc.money.Currency()
}

func (uc *InvoiceUseCase) toResponse(inv entity.Invoice) dto.InvoiceResponse {
	next, _ := invoicing.NextActionLabel(inv)
	resp := dto.InvoiceResponse{
		ID:                   inv.ID,
		InvoiceNumber:        inv.InvoiceNumber,
		InvoiceType:          string(inv.InvoiceType),
		DeliveryMethod:       string(inv.DeliveryMethod),
		Status:               string(inv.Status),
		EtimadStage:          string(inv.EtimadStage),
		CustomStage:          string(inv.CustomStage),
		Party:                inv.Party,
		Description:          inv.Description,
		Amount:               inv.Amount,
		AmountDisplay:        uc.format(inv.Amount),
		IssueDate:            inv.IssueDate,
		DueDate:              inv.DueDate,
		DateSent:             inv.DateSent,
		DateReceived:         inv.DateReceived,
		DateCollected:        inv.DateCollected,
		DatePaid:             inv.DatePaid,
		CustomDeliveryMethod: inv.CustomDeliveryMethod,
		EtimadNotes:          inv.EtimadNotes,
		CustomFields:         inv.CustomFields,
		Collected:            invoicing.IsCollected(inv),
		NextAction:           next,
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return resp
}

func toDraft(req dto.InvoiceRequest) (invoicing.Draft, error) {
	issue, err := parseDate(req.IssueDate)
	if err != nil {
		return invoicing.Draft{}, err
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return invoicing.Draft{}, err
	}
	d := invoicing.Draft{
		InvoiceNumber:        req.InvoiceNumber,
		InvoiceType:          entity.InvoiceType(strings.TrimSpace(req.InvoiceType)),
		DeliveryMethod:       entity.DeliveryMethod(strings.TrimSpace(req.DeliveryMethod)),
		Party:                strings.TrimSpace(req.Party),
		Description:          req.Description,
		Amount:               req.Amount.Decimal,
		IssueDate:            issue,
		DueDate:              due,
		CustomDeliveryMethod: strings.TrimSpace(req.CustomDeliveryMethod),
		EtimadNotes:          req.EtimadNotes,
		CustomFields:         req.CustomFields,
	}
	for _, it := range req.Items {
		d.Items = append(d.Items, entity.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity.Decimal,
			UnitPrice:   it.UnitPrice.Decimal,
		})
	}
	return d, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, s)
}

func indexOf(invoices []entity.Invoice, id string) int {
	for i := range invoices {
		if invoices[i].ID == id {
			return i
		}
	}
	return -1
}
