// Package invoicing contiene los motores puros de facturas: transiciones del
// ciclo de vida y agregación financiera. Aquí nada hace I/O ni lee el reloj;
// los llamadores pasan la hora actual.
package invoicing

import (
	"time"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// Avance de estados por email según tipo de factura. Los estados que no están en el mapa son terminales.
var emailNext = map[entity.InvoiceType]map[entity.InvoiceStatus]entity.InvoiceStatus{
	entity.InvoiceTypeClient: {
		entity.StatusDraft: entity.StatusSent,
		entity.StatusSent:  entity.StatusCollected,
	},
	entity.InvoiceTypeVendor: {
		entity.StatusReceived: entity.StatusPaid,
	},
}

// Tablas de etapas: etapa actual -> la única etapa a la que puede pasar.
var (
	etimadNext = map[entity.EtimadStage]entity.EtimadStage{
		entity.EtimadSubmitted:   entity.EtimadUnderReview,
		entity.EtimadUnderReview: entity.EtimadApproved,
		entity.EtimadApproved:    entity.EtimadCollected,
	}
	customNext = map[entity.CustomStage]entity.CustomStage{
		entity.CustomPending:    entity.CustomInProgress,
		entity.CustomInProgress: entity.CustomCompleted,
	}
)

// AdvanceStatus avanza una factura por email un paso en su camino de estados
// y marca la fecha del nuevo estado. Los estados terminales o desconocidos dan
// una copia idéntica. Las facturas que no son por email se rechazan.
func AdvanceStatus(inv entity.Invoice, now time.Time) (entity.Invoice, error) {
	out := inv.Clone()
	if inv.DeliveryMethod != entity.DeliveryEmail {
		return out, &domain.TransitionError{
			Method: string(inv.DeliveryMethod),
			From:   string(inv.Status),
			Err:    domain.ErrWrongDeliveryMethod,
		}
	}
	next, ok := emailNext[inv.InvoiceType][inv.Status]
	if !ok {
		return out, nil
	}
	out.Status = next
	stampStatus(&out, next, now)
	out.UpdatedAt = now
	return out, nil
}

// AdvanceEtimadStage mueve una factura Etimad a stage. Solo se acepta la
// sucesora de la etapa actual. submitted y collected mueven la proyección de
// estado y su fecha; las etapas intermedias no tocan el estado.
func AdvanceEtimadStage(inv entity.Invoice, stage entity.EtimadStage, now time.Time) (entity.Invoice, error) {
	out := inv.Clone()
	if inv.DeliveryMethod != entity.DeliveryEtimad {
		return out, &domain.TransitionError{
			Method: string(inv.DeliveryMethod),
			From:   string(inv.Status),
			To:     string(stage),
			Err:    domain.ErrWrongDeliveryMethod,
		}
	}
	if next, ok := etimadNext[inv.EtimadStage]; !ok || next != stage {
		return out, &domain.TransitionError{
			Method: string(entity.DeliveryEtimad),
			From:   string(inv.EtimadStage),
			To:     string(stage),
			Err:    domain.ErrInvalidTransition,
		}
	}
	out.EtimadStage = stage
	if status, ok := etimadStatus(inv.InvoiceType, stage); ok {
		out.Status = status
		stampStatus(&out, status, now)
	}
	out.UpdatedAt = now
	return out, nil
}

// AdvanceCustomStage mueve una factura de entrega personalizada a stage. A
// diferencia de Etimad, la etapa custom nunca toca el estado ni las fechas.
func AdvanceCustomStage(inv entity.Invoice, stage entity.CustomStage, now time.Time) (entity.Invoice, error) {
	out := inv.Clone()
	if inv.DeliveryMethod != entity.DeliveryCustom {
		return out, &domain.TransitionError{
			Method: string(inv.DeliveryMethod),
			From:   string(inv.Status),
			To:     string(stage),
			Err:    domain.ErrWrongDeliveryMethod,
		}
	}
	if next, ok := customNext[inv.CustomStage]; !ok || next != stage {
		return out, &domain.TransitionError{
			Method: string(entity.DeliveryCustom),
			From:   string(inv.CustomStage),
			To:     string(stage),
			Err:    domain.ErrInvalidTransition,
		}
	}
	out.CustomStage = stage
	out.UpdatedAt = now
	return out, nil
}

// NextEtimadStage devuelve la sucesora de s, false si s es la final.
func NextEtimadStage(s entity.EtimadStage) (entity.EtimadStage, bool) {
	next, ok := etimadNext[s]
	return next, ok
}

// NextCustomStage devuelve la sucesora de s, false si s es la final.
func NextCustomStage(s entity.CustomStage) (entity.CustomStage, bool) {
	next, ok := customNext[s]
	return next, ok
}

// NextActionLabel devuelve el texto del único botón de acción de una factura
// por email. Las facturas Etimad y custom avanzan con su stepper de etapas
// y no tienen acción.
func NextActionLabel(inv entity.Invoice) (string, bool) {
	if inv.DeliveryMethod != entity.DeliveryEmail {
		return "", false
	}
	switch {
	case inv.InvoiceType == entity.InvoiceTypeClient && inv.Status == entity.StatusDraft:
		return "Send Invoice", true
	case inv.InvoiceType == entity.InvoiceTypeClient && inv.Status == entity.StatusSent:
		return "Mark as Collected", true
	case inv.InvoiceType == entity.InvoiceTypeVendor && inv.Status == entity.StatusReceived:
		return "Mark as Paid", true
	}
	return "", false
}

// etimadStatus es la proyección de estado de una etapa Etimad. Las facturas de
// proveedor se quedan en su vocabulario {received, paid}.
func etimadStatus(t entity.InvoiceType, stage entity.EtimadStage) (entity.InvoiceStatus, bool) {
	if t == entity.InvoiceTypeVendor {
		if stage == entity.EtimadCollected {
			return entity.StatusPaid, true
		}
		return "", false
	}
	switch stage {
	case entity.EtimadSubmitted:
		return entity.StatusSent, true
	case entity.EtimadCollected:
		return entity.StatusCollected, true
	}
	return "", false
}

// stampStatus fija el campo de fecha que corresponde a status.
func stampStatus(inv *entity.Invoice, status entity.InvoiceStatus, now time.Time) {
	t := now
	switch status {
	case entity.StatusSent:
		inv.DateSent = &t
	case entity.StatusReceived:
		inv.DateReceived = &t
	case entity.StatusCollected:
		inv.DateCollected = &t
	case entity.StatusPaid:
		inv.DatePaid = &t
	}
}
