package services

import (
	"errors"
	"strings"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"
	"backend/utils"

	"gorm.io/gorm"
)

// ShipmentService owns shipment records and their append-only event ledger.
// Status changes and ledger appends always happen in one transaction.
type ShipmentService struct {
	DB        *gorm.DB
	Repo      *repository.ShipmentRepository
	EventRepo *repository.ShipmentEventRepository
	UserRepo  *repository.UserRepository

	TrackingPrefix string
}

func NewShipmentService(
	db *gorm.DB,
	repo *repository.ShipmentRepository,
	eventRepo *repository.ShipmentEventRepository,
	userRepo *repository.UserRepository,
	trackingPrefix string,
) *ShipmentService {
	return &ShipmentService{
		DB:             db,
		Repo:           repo,
		EventRepo:      eventRepo,
		UserRepo:       userRepo,
		TrackingPrefix: trackingPrefix,
	}
}

// ----- DTOs -----

type ShipmentDraft struct {
	TrackingCode   string   `json:"trackingCode"`
	CustomerEmail  string   `json:"customerEmail"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	WeightKg       *float64 `json:"weightKg"`
	PriceAmount    *float64 `json:"priceAmount"`
	Currency       string   `json:"currency"`
	SenderFullName string   `json:"senderFullName"`
	SenderIDNumber string   `json:"senderIdNumber"`
	Notes          string   `json:"notes"`
}

type ShipmentPatch struct {
	Origin         *string  `json:"origin"`
	Destination    *string  `json:"destination"`
	WeightKg       *float64 `json:"weightKg"`
	PriceAmount    *float64 `json:"priceAmount"`
	Currency       *string  `json:"currency"`
	SenderFullName *string  `json:"senderFullName"`
	SenderIDNumber *string  `json:"senderIdNumber"`
	Notes          *string  `json:"notes"`
}

// PublicShipmentView is the unauthenticated tracking shape. It must never
// carry customer email, notes, pricing or actor ids.
type PublicShipmentView struct {
	TrackingCode string            `json:"trackingCode"`
	Origin       string            `json:"origin"`
	Destination  string            `json:"destination"`
	Status       string            `json:"status"`
	History      []PublicEventView `json:"history"`
}

type PublicEventView struct {
	Status    string    `json:"status"`
	Location  *string   `json:"location,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type BulkRowResult struct {
	Index        int    `json:"index"`
	TrackingCode string `json:"trackingCode,omitempty"`
	ID           uint   `json:"id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ----- validation -----

func (s *ShipmentService) validateDraft(d *ShipmentDraft) error {
	if strings.TrimSpace(d.TrackingCode) == "" {
		d.TrackingCode = utils.GenerateTrackingCode(s.TrackingPrefix)
	}
	if strings.TrimSpace(d.Origin) == "" {
		return apperr.Validation("origin is required")
	}
	if strings.TrimSpace(d.Destination) == "" {
		return apperr.Validation("destination is required")
	}
	return nil
}

// resolveCustomer maps a customer email onto a user id. An unknown email is
// a validation error here; the bulk importer resolves its whole file at once
// and leaves unknown emails unbound instead.
func (s *ShipmentService) resolveCustomer(email string) (*uint, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("customer email not found: %s", email)
		}
		return nil, err
	}
	return &user.ID, nil
}

// ----- operations -----

// Create is the staff entry point: initial status is "created" and the first
// ledger event is written in the same transaction as the shipment row.
func (s *ShipmentService) Create(draft *ShipmentDraft, actor Actor) (*entity.Shipment, error) {
	if !CanWriteShipment(actor) {
		return nil, apperr.Forbidden("forbidden")
	}
	customerID, err := s.resolveCustomer(draft.CustomerEmail)
	if err != nil {
		return nil, err
	}
	return s.create(draft, entity.StatusCreated, actor, customerID)
}

// Request is the customer entry point: the shipment starts as "requested"
// and is bound to the requesting customer.
func (s *ShipmentService) Request(draft *ShipmentDraft, actor Actor) (*entity.Shipment, error) {
	if actor.Role != entity.RoleCustomer {
		return nil, apperr.Forbidden("forbidden")
	}
	draft.CustomerEmail = actor.Email
	return s.create(draft, entity.StatusRequested, actor, &actor.ID)
}

func (s *ShipmentService) create(draft *ShipmentDraft, status string, actor Actor, customerID *uint) (*entity.Shipment, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	count, err := s.Repo.CountByTrackingCode(draft.TrackingCode)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("tracking code already exists: %s", draft.TrackingCode)
	}

	currency := strings.TrimSpace(draft.Currency)
	if currency == "" {
		currency = "MAD"
	}

	shipment := entity.Shipment{
		TrackingCode:   strings.TrimSpace(draft.TrackingCode),
		CustomerID:     customerID,
		Origin:         strings.TrimSpace(draft.Origin),
		Destination:    strings.TrimSpace(draft.Destination),
		Status:         status,
		WeightKg:       draft.WeightKg,
		PriceAmount:    draft.PriceAmount,
		Currency:       currency,
		SenderFullName: strings.TrimSpace(draft.SenderFullName),
		SenderIDNumber: strings.TrimSpace(draft.SenderIDNumber),
		Notes:          draft.Notes,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, &shipment); err != nil {
			return err
		}
		note := "Shipment created"
		if status == entity.StatusRequested {
			note = "Pickup requested"
		}
		ev := entity.ShipmentEvent{
			ShipmentID: shipment.ID,
			Status:     status,
			Note:       &note,
			ActorID:    &actor.ID,
		}
		return s.EventRepo.Create(tx, &ev)
	})
	if err != nil {
		// a concurrent insert can still race the pre-check
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, apperr.Conflict("tracking code already exists: %s", draft.TrackingCode)
		}
		return nil, err
	}
	return &shipment, nil
}

// UpdateStatus sets the shipment status and appends the matching ledger
// entry; both writes commit together or not at all.
func (s *ShipmentService) UpdateStatus(shipmentID uint, status string, note, location *string, actor Actor) (*entity.Shipment, error) {
	if !CanWriteShipment(actor) {
		return nil, apperr.Forbidden("forbidden")
	}
	if !entity.ValidStatus(status) {
		return nil, apperr.Validation("unknown status: %s", status)
	}

	shipment, err := s.Repo.Get(shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shipment not found")
		}
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.UpdateStatus(tx, shipment.ID, status); err != nil {
			return err
		}
		ev := entity.ShipmentEvent{
			ShipmentID: shipment.ID,
			Status:     status,
			Note:       note,
			Location:   location,
			ActorID:    &actor.ID,
		}
		return s.EventRepo.Create(tx, &ev)
	})
	if err != nil {
		return nil, err
	}

	shipment.Status = status
	return shipment, nil
}

// AppendEvent records a ledger entry without changing the status, e.g. a
// location scan while the shipment stays in_transit.
func (s *ShipmentService) AppendEvent(shipmentID uint, note, location *string, actor Actor) (*entity.ShipmentEvent, error) {
	if !CanAppendEvent(actor) {
		return nil, apperr.Forbidden("forbidden")
	}

	shipment, err := s.Repo.Get(shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shipment not found")
		}
		return nil, err
	}

	ev := entity.ShipmentEvent{
		ShipmentID: shipment.ID,
		Status:     shipment.Status,
		Note:       note,
		Location:   location,
		ActorID:    &actor.ID,
	}
	if err := s.EventRepo.Create(s.DB, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// PatchFields updates descriptive fields only. Status and tracking code are
// never patchable; status goes through UpdateStatus so the ledger stays true.
func (s *ShipmentService) PatchFields(shipmentID uint, patch *ShipmentPatch, actor Actor) (*entity.Shipment, error) {
	if !CanWriteShipment(actor) {
		return nil, apperr.Forbidden("forbidden")
	}

	if _, err := s.Repo.Get(shipmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shipment not found")
		}
		return nil, err
	}

	updates := map[string]any{}
	if patch.Origin != nil {
		if strings.TrimSpace(*patch.Origin) == "" {
			return nil, apperr.Validation("origin cannot be empty")
		}
		updates["origin"] = strings.TrimSpace(*patch.Origin)
	}
	if patch.Destination != nil {
		if strings.TrimSpace(*patch.Destination) == "" {
			return nil, apperr.Validation("destination cannot be empty")
		}
		updates["destination"] = strings.TrimSpace(*patch.Destination)
	}
	if patch.WeightKg != nil {
		updates["weight_kg"] = *patch.WeightKg
	}
	if patch.PriceAmount != nil {
		updates["price_amount"] = *patch.PriceAmount
	}
	if patch.Currency != nil {
		updates["currency"] = strings.TrimSpace(*patch.Currency)
	}
	if patch.SenderFullName != nil {
		updates["sender_full_name"] = strings.TrimSpace(*patch.SenderFullName)
	}
	if patch.SenderIDNumber != nil {
		updates["sender_id_number"] = strings.TrimSpace(*patch.SenderIDNumber)
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if len(updates) == 0 {
		return s.Repo.Get(shipmentID)
	}
	updates["updated_at"] = time.Now()

	if err := s.Repo.PatchFields(s.DB, shipmentID, updates); err != nil {
		return nil, err
	}
	return s.Repo.Get(shipmentID)
}

// Delete removes a shipment and its ledger in one transaction. Admin only.
func (s *ShipmentService) Delete(shipmentID uint, actor Actor) error {
	if !CanDeleteShipment(actor) {
		return apperr.Forbidden("forbidden")
	}
	if _, err := s.Repo.Get(shipmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("shipment not found")
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.Delete(tx, shipmentID)
	})
}

// List returns shipments visible to the actor, newest-first, optionally
// filtered by a case-insensitive tracking-code substring.
func (s *ShipmentService) List(actor Actor, query string, limit int) ([]entity.Shipment, error) {
	switch {
	case actor.IsStaff():
		return s.Repo.ListAll(query, limit)
	case actor.Role == entity.RoleCustomer && actor.Email != "":
		return s.Repo.ListForCustomerEmail(actor.Email, query, limit)
	default:
		return nil, apperr.Forbidden("forbidden")
	}
}

// Detail returns one shipment plus its recent events, policy-checked.
func (s *ShipmentService) Detail(shipmentID uint, actor Actor) (*entity.Shipment, []entity.ShipmentEvent, error) {
	shipment, err := s.Repo.GetWithCustomer(shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("shipment not found")
		}
		return nil, nil, err
	}

	customerEmail := ""
	if shipment.Customer != nil {
		customerEmail = shipment.Customer.Email
	}
	if !CanReadShipment(actor, customerEmail) {
		// same answer as not-found would leak less, but staff tooling wants
		// the distinction; the public endpoint never reaches this path
		return nil, nil, apperr.Forbidden("forbidden")
	}

	events, err := s.EventRepo.ListFor(shipment.ID, 50)
	if err != nil {
		return nil, nil, err
	}
	return shipment, events, nil
}

// ListEvents exposes the ledger page (newest-first, capped) to callers that
// already passed the shipment read check.
func (s *ShipmentService) ListEvents(shipmentID uint, limit int, actor Actor) ([]entity.ShipmentEvent, error) {
	_, events, err := s.Detail(shipmentID, actor)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

// FindByTrackingCode is the public unauthenticated lookup. Only the scrubbed
// view leaves this function.
func (s *ShipmentService) FindByTrackingCode(code string) (*PublicShipmentView, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.Validation("tracking code is required")
	}
	shipment, err := s.Repo.FindByTrackingCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shipment not found")
		}
		return nil, err
	}

	events, err := s.EventRepo.ListFor(shipment.ID, 50)
	if err != nil {
		return nil, err
	}

	view := &PublicShipmentView{
		TrackingCode: shipment.TrackingCode,
		Origin:       shipment.Origin,
		Destination:  shipment.Destination,
		Status:       shipment.Status,
		History:      make([]PublicEventView, 0, len(events)),
	}
	for _, ev := range events {
		view.History = append(view.History, PublicEventView{
			Status:    ev.Status,
			Location:  ev.Location,
			Note:      ev.Note,
			CreatedAt: ev.CreatedAt,
		})
	}
	return view, nil
}

// BulkCreate validates and inserts each draft independently; a bad row is
// reported with its index and does not stop the rest. Customer emails are
// resolved in one query for the whole file; an unknown email leaves that
// shipment unbound rather than failing the row.
func (s *ShipmentService) BulkCreate(drafts []ShipmentDraft, actor Actor) ([]BulkRowResult, error) {
	if !CanWriteShipment(actor) {
		return nil, apperr.Forbidden("forbidden")
	}

	emails := make([]string, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.CustomerEmail) != "" {
			emails = append(emails, d.CustomerEmail)
		}
	}
	customerIDs, err := s.UserRepo.IDsByEmails(emails)
	if err != nil {
		return nil, err
	}

	results := make([]BulkRowResult, 0, len(drafts))
	for i := range drafts {
		d := drafts[i]
		var customerID *uint
		if id, ok := customerIDs[strings.ToLower(strings.TrimSpace(d.CustomerEmail))]; ok {
			cid := id
			customerID = &cid
		}
		shipment, err := s.create(&d, entity.StatusCreated, actor, customerID)
		if err != nil {
			results = append(results, BulkRowResult{Index: i, Error: err.Error()})
			continue
		}
		results = append(results, BulkRowResult{
			Index:        i,
			ID:           shipment.ID,
			TrackingCode: shipment.TrackingCode,
		})
	}
	return results, nil
}

// ExportAll is the bulk-read entry point for the tabular exporter: every
// shipment visible to the actor.
func (s *ShipmentService) ExportAll(actor Actor) ([]entity.Shipment, error) {
	return s.List(actor, "", 5000)
}
