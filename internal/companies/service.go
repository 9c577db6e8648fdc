package companies

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/credit"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/users"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/shopify"
)

// CreditLimitMetafield addresses the company-level limit surfaced to Shopify
// storefront blocks.
const (
	MetafieldNamespace      = "b2b_portal"
	CreditLimitMetafieldKey = "credit_limit"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.User, error)
}

type shopifyClient interface {
	CreateCompany(ctx context.Context, params shopify.CompanyCreateParams) (string, error)
	AssignCompanyContact(ctx context.Context, companyGID, customerID string) error
	SetMetafields(ctx context.Context, metafields []shopify.Metafield) error
}

// Service exposes business account administration.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*CompanyDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	List(ctx context.Context, shopID string, status *enums.CompanyStatus) ([]CompanyDTO, error)
	Approve(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	Reject(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	SetCreditLimit(ctx context.Context, id uuid.UUID, limit decimal.Decimal) (*CompanyDTO, error)
	AssignUser(ctx context.Context, companyID uuid.UUID, input AssignUserInput) (*users.UserDTO, error)
}

type service struct {
	repo    *Repository
	users   usersRepository
	ledger  credit.Repository
	tx      txRunner
	shopify shopifyClient
	logg    *logger.Logger
}

// NewService builds a companies service with the provided dependencies.
func NewService(repo *Repository, usersRepo usersRepository, ledger credit.Repository, tx txRunner, shopifyClient shopifyClient, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("companies repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("credit repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if shopifyClient == nil {
		return nil, fmt.Errorf("shopify client required")
	}
	return &service{
		repo:    repo,
		users:   usersRepo,
		ledger:  ledger,
		tx:      tx,
		shopify: shopifyClient,
		logg:    logg,
	}, nil
}

// Register files a business account application. The account stays pending
// until an admin approves it; no credit can be extended before that.
func (s *service) Register(ctx context.Context, input RegisterInput) (*CompanyDTO, error) {
	company := &models.Company{
		ID:           uuid.New(),
		ShopID:       input.ShopID,
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		Status:       enums.CompanyStatusPending,
		CreditLimit:  decimal.Zero,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
	}
	s.info(ctx, company.ID, "company registration filed")
	return fromModel(company), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.users.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	company.Users = members
	return fromModel(company), nil
}

func (s *service) List(ctx context.Context, shopID string, status *enums.CompanyStatus) ([]CompanyDTO, error) {
	list, err := s.repo.List(ctx, shopID, status)
	if err != nil {
		return nil, err
	}
	out := make([]CompanyDTO, 0, len(list))
	for i := range list {
		out = append(out, *fromModel(&list[i]))
	}
	return out, nil
}

// Approve activates a pending account and provisions its Shopify counterpart.
// The ExternalCompanyID pre-check makes the call replayable: an account that
// already synced is never created twice upstream.
func (s *service) Approve(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.Status == enums.CompanyStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejected company cannot be approved")
	}
	if company.Status == enums.CompanyStatusApproved && company.ExternalCompanyID != nil {
		return fromModel(company), nil
	}

	if company.ExternalCompanyID == nil {
		gid, err := s.shopify.CreateCompany(ctx, shopify.CompanyCreateParams{
			Name:         company.Name,
			ExternalID:   company.ID.String(),
			ContactEmail: company.ContactEmail,
		})
		if err != nil {
			return nil, err
		}
		company.ExternalCompanyID = &gid
	}

	company.Status = enums.CompanyStatusApproved
	if err := s.repo.Save(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save company")
	}

	s.pushCreditLimit(ctx, company)
	s.info(ctx, company.ID, "company approved")
	return fromModel(company), nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.Status == enums.CompanyStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "approved company cannot be rejected")
	}
	company.Status = enums.CompanyStatusRejected
	if err := s.repo.Save(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save company")
	}
	s.info(ctx, company.ID, "company rejected")
	return fromModel(company), nil
}

// SetCreditLimit moves the company ceiling and records the move in the ledger.
// Lowering below the outstanding total is allowed; existing orders stand and
// new ones fail validation until usage drains.
func (s *service) SetCreditLimit(ctx context.Context, id uuid.UUID, limit decimal.Decimal) (*CompanyDTO, error) {
	if limit.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit limit must not be negative")
	}

	var updated *models.Company
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		if err := ledger.LockCompany(ctx, id); err != nil {
			return err
		}
		company, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		outstanding, err := ledger.OutstandingCredit(ctx, id)
		if err != nil {
			return err
		}

		previous := company.CreditLimit.Sub(outstanding)
		company.CreditLimit = limit
		if err := repo.Save(ctx, company); err != nil {
			return err
		}

		// Amount stays zero so replaying order deltas still reconciles; the
		// balance pair records the limit move itself.
		entry := &models.CreditTransaction{
			CompanyID:       company.ID,
			Type:            enums.CreditTransactionTypeAdjustment,
			Reason:          fmt.Sprintf("limit_change:%s", time.Now().UTC().Format(time.RFC3339Nano)),
			Amount:          decimal.Zero,
			PreviousBalance: previous,
			NewBalance:      limit.Sub(outstanding),
		}
		if err := ledger.AppendTransaction(ctx, entry); err != nil {
			return err
		}
		updated = company
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushCreditLimit(ctx, updated)
	return fromModel(updated), nil
}

// AssignUser attaches a member to an approved company and mirrors the contact
// at Shopify when both sides have synced identities.
func (s *service) AssignUser(ctx context.Context, companyID uuid.UUID, input AssignUserInput) (*users.UserDTO, error) {
	company, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Status != enums.CompanyStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company is not approved")
	}
	if input.CreditLimit != nil && input.CreditLimit.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "personal credit limit must not be negative")
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.ShopID != company.ShopID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user belongs to a different shop")
	}
	if user.CompanyID != nil && *user.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already belongs to another company")
	}

	user.CompanyID = &companyID
	user.CreditLimit = input.CreditLimit
	if input.Role != "" {
		user.Role = input.Role
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}

	if company.ExternalCompanyID != nil && user.ShopifyCustomerID != nil {
		if err := s.shopify.AssignCompanyContact(ctx, *company.ExternalCompanyID, *user.ShopifyCustomerID); err != nil {
			s.warn(ctx, companyID, fmt.Sprintf("company contact sync failed: %v", err))
		}
	}

	s.info(ctx, companyID, "user assigned to company")
	return users.FromModel(user), nil
}

// pushCreditLimit mirrors the ceiling into a company metafield. Local state is
// the authority; a failed push is logged and retried on the next limit change.
func (s *service) pushCreditLimit(ctx context.Context, company *models.Company) {
	if company.ExternalCompanyID == nil {
		return
	}
	err := s.shopify.SetMetafields(ctx, []shopify.Metafield{{
		OwnerID:   *company.ExternalCompanyID,
		Namespace: MetafieldNamespace,
		Key:       CreditLimitMetafieldKey,
		Type:      "number_decimal",
		Value:     company.CreditLimit.StringFixed(2),
	}})
	if err != nil {
		s.warn(ctx, company.ID, fmt.Sprintf("credit limit metafield sync failed: %v", err))
	}
}

func (s *service) info(ctx context.Context, companyID uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithCompanyID(ctx, companyID.String()), msg)
}

func (s *service) warn(ctx context.Context, companyID uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithCompanyID(ctx, companyID.String()), msg)
}
