package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/contratos/contracts-service/internal/catalog"
	"github.com/contratos/contracts-service/internal/generate"
	"github.com/contratos/contracts-service/internal/model"
	"github.com/contratos/contracts-service/internal/session"
)

// PartySource supplies fill-context records; the engine never queries
// parties on its own.
type PartySource interface {
	GetParty(ctx context.Context, id uuid.UUID) (model.PartyRecord, error)
	ListCounterparties(ctx context.Context, selfOrgID uuid.UUID) ([]model.PartySummary, error)
}

// ContractStore is the persistence collaborator for generated
// contracts.
type ContractStore interface {
	SaveGenerated(ctx context.Context, contract model.GeneratedContract) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedContract, error)
	ListByScope(ctx context.Context, scopeID uuid.UUID) ([]model.GeneratedContract, error)
}

// PDFRenderer is the export collaborator for downloads.
type PDFRenderer interface {
	Render(contract model.GeneratedContract) ([]byte, error)
}

// RegisterExporter produces the org's contracts register spreadsheet.
type RegisterExporter interface {
	Export(contracts []model.GeneratedContract) ([]byte, error)
}

type ContractService struct {
	sessions  *session.Manager
	catalog   *catalog.Catalog
	parties   PartySource
	contracts ContractStore
	gen       *generate.Generator
	pdf       PDFRenderer
	register  RegisterExporter
	log       zerolog.Logger
}

func NewContractService(
	sessions *session.Manager,
	cat *catalog.Catalog,
	parties PartySource,
	contracts ContractStore,
	gen *generate.Generator,
	pdf PDFRenderer,
	register RegisterExporter,
	log zerolog.Logger,
) *ContractService {
	return &ContractService{
		sessions:  sessions,
		catalog:   cat,
		parties:   parties,
		contracts: contracts,
		gen:       gen,
		pdf:       pdf,
		register:  register,
		log:       log,
	}
}

// StartSession selects the template, builds the fill context and
// seeds the form. The returned session is already in the filling
// state.
func (s *ContractService) StartSession(ctx context.Context, principal model.Principal, templateID uuid.UUID, counterpartyID *uuid.UUID) (*session.Session, error) {
	template, err := s.catalog.Get(ctx, templateID, principal.OrgID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template", ErrNotFound)
	}

	fill := &model.FillContext{}
	self, err := s.parties.GetParty(ctx, principal.OrgID)
	switch {
	case err == nil:
		fill.Self = self
	case errors.Is(err, gorm.ErrRecordNotFound):
		// An org without a party record just gets no self auto-fill.
	default:
		return nil, err
	}

	if counterpartyID != nil {
		counterparty, err := s.parties.GetParty(ctx, *counterpartyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: counterparty", ErrNotFound)
			}
			return nil, err
		}
		fill.Counterparty = counterparty
	}

	sess := session.New(principal, s.gen, time.Now())
	if err := sess.SelectTemplate(template, fill); err != nil {
		return nil, err
	}
	s.sessions.Put(sess)
	return sess, nil
}

func (s *ContractService) GetSession(principal model.Principal, id uuid.UUID) (*session.Session, error) {
	sess, ok := s.sessions.Get(id, principal.UserID)
	if !ok {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	return sess, nil
}

func (s *ContractService) SetField(principal model.Principal, sessionID uuid.UUID, fieldID string, value any) (*model.FieldError, error) {
	sess, err := s.GetSession(principal, sessionID)
	if err != nil {
		return nil, err
	}
	feedback, err := sess.SetFieldValue(fieldID, value)
	if err != nil {
		return nil, translateSessionErr(err)
	}
	return feedback, nil
}

// Preview validates the whole form; on success the rendered content
// is returned, otherwise the failing fields.
func (s *ContractService) Preview(principal model.Principal, sessionID uuid.UUID) (string, []model.FieldError, error) {
	sess, err := s.GetSession(principal, sessionID)
	if err != nil {
		return "", nil, err
	}
	fieldErrs, err := sess.RequestPreview()
	if err != nil {
		return "", nil, translateSessionErr(err)
	}
	if len(fieldErrs) > 0 {
		return "", fieldErrs, nil
	}
	content, err := sess.Content()
	if err != nil {
		return "", nil, translateSessionErr(err)
	}
	return content, nil, nil
}

// Save hands the rendered contract to the persistence collaborator. A
// storage failure leaves the session in Previewing with its content
// intact; calling Save again retries without regenerating.
func (s *ContractService) Save(ctx context.Context, principal model.Principal, sessionID uuid.UUID) (uuid.UUID, error) {
	sess, err := s.GetSession(principal, sessionID)
	if err != nil {
		return uuid.Nil, err
	}
	content, err := sess.Content()
	if err != nil {
		return uuid.Nil, translateSessionErr(err)
	}
	template := sess.Template()

	id, err := s.contracts.SaveGenerated(ctx, model.GeneratedContract{
		TemplateID:   template.ID,
		TemplateName: template.Name,
		FormData:     sess.Form(),
		Content:      content,
		OwnerOrgID:   principal.OrgID,
		CreatedBy:    principal.UserID,
	})
	if err != nil {
		s.log.Error().Err(err).Stringer("session_id", sessionID).Msg("save generated contract failed")
		return uuid.Nil, fmt.Errorf("%w: %v", ErrExternalIO, err)
	}
	return id, nil
}

// DownloadPDF renders the previewed content for download. Like Save,
// a failure is retryable without recomputation.
func (s *ContractService) DownloadPDF(principal model.Principal, sessionID uuid.UUID) ([]byte, string, error) {
	sess, err := s.GetSession(principal, sessionID)
	if err != nil {
		return nil, "", err
	}
	content, err := sess.Content()
	if err != nil {
		return nil, "", translateSessionErr(err)
	}
	template := sess.Template()

	data, err := s.pdf.Render(model.GeneratedContract{
		TemplateName: template.Name,
		Content:      content,
	})
	if err != nil {
		s.log.Error().Err(err).Stringer("session_id", sessionID).Msg("render pdf failed")
		return nil, "", fmt.Errorf("%w: %v", ErrExternalIO, err)
	}
	return data, buildFileName(template.Name, time.Now()), nil
}

func (s *ContractService) BackToForm(principal model.Principal, sessionID uuid.UUID) error {
	sess, err := s.GetSession(principal, sessionID)
	if err != nil {
		return err
	}
	return translateSessionErr(sess.BackToForm())
}

func (s *ContractService) BackToTemplates(principal model.Principal, sessionID uuid.UUID) error {
	sess, err := s.GetSession(principal, sessionID)
	if err != nil {
		return err
	}
	sess.BackToTemplates()
	return nil
}

func (s *ContractService) Discard(principal model.Principal, sessionID uuid.UUID) {
	if _, err := s.GetSession(principal, sessionID); err != nil {
		return
	}
	s.sessions.Delete(sessionID)
}

func (s *ContractService) ListCounterparties(ctx context.Context, principal model.Principal) ([]model.PartySummary, error) {
	return s.parties.ListCounterparties(ctx, principal.OrgID)
}

func (s *ContractService) ListContracts(ctx context.Context, principal model.Principal) ([]model.GeneratedContract, error) {
	return s.contracts.ListByScope(ctx, principal.OrgID)
}

func (s *ContractService) GetContract(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.GeneratedContract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if contract.OwnerOrgID != principal.OrgID {
		return nil, ErrNotFound
	}
	return contract, nil
}

func (s *ContractService) ContractPDF(ctx context.Context, principal model.Principal, id uuid.UUID) ([]byte, string, error) {
	contract, err := s.GetContract(ctx, principal, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.pdf.Render(*contract)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExternalIO, err)
	}
	return data, buildFileName(contract.TemplateName, contract.CreatedAt), nil
}

// ExportRegister produces the XLSX register of the org's generated
// contracts.
func (s *ContractService) ExportRegister(ctx context.Context, principal model.Principal) ([]byte, string, error) {
	contracts, err := s.contracts.ListByScope(ctx, principal.OrgID)
	if err != nil {
		return nil, "", err
	}
	data, err := s.register.Export(contracts)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExternalIO, err)
	}
	fileName := fmt.Sprintf("contratos-%s.xlsx", time.Now().Format("20060102"))
	return data, fileName, nil
}

func translateSessionErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrWrongState):
		return ErrWrongState
	case errors.Is(err, session.ErrUnknownField):
		return fmt.Errorf("%w: unknown field", ErrInvalidInput)
	}
	return err
}

func buildFileName(templateName string, at time.Time) string {
	name := sanitizeFileName(templateName)
	if name == "" {
		name = "contrato"
	}
	return fmt.Sprintf("%s-%s.pdf", name, at.Format("20060102"))
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
