package service

import (
	"strings"

	"github.com/referral-ledger/internal/constants"
	"github.com/referral-ledger/internal/models"
	"github.com/referral-ledger/internal/repository"

	"gorm.io/gorm"
)

// OwnershipGuard 归属授权判定
type OwnershipGuard interface {
	CanMutateInvoice(actor, owner, action string) (bool, error)
	CanSetBonusStatus(actor, referrer string) (bool, error)
}

// InvoiceInput 新建发票参数
type InvoiceInput struct {
	Year            *int          `json:"year" validate:"required,gte=1,lte=9999"`
	Month           *int          `json:"month" validate:"required,gte=1,lte=12"`
	ClientName      *string       `json:"clientName" validate:"required,min=1,max=255"`
	Amount          *models.Money `json:"amount" validate:"required,gt=0"`
	Referrer        *string       `json:"referrer" validate:"required,min=1,max=120"`
	BonusPercentage *models.Rate  `json:"bonusPercentage" validate:"required,gte=0,lte=1"`
	Paid            *bool         `json:"paid"`
	CreatedBy       *string       `json:"createdBy" validate:"omitempty,max=120"`
}

// InvoicePatch 局部更新参数，nil 字段保持不变
type InvoicePatch struct {
	Year            *int          `json:"year" validate:"omitempty,gte=1,lte=9999"`
	Month           *int          `json:"month" validate:"omitempty,gte=1,lte=12"`
	ClientName      *string       `json:"clientName" validate:"omitempty,min=1,max=255"`
	Amount          *models.Money `json:"amount" validate:"omitempty,gt=0"`
	BonusPercentage *models.Rate  `json:"bonusPercentage" validate:"omitempty,gte=0,lte=1"`
	Paid            *bool         `json:"paid"`
	Referrer        *string       `json:"referrer"`
	CreatedBy       *string       `json:"createdBy"`
}

// updates 转换为列更新集合
func (p InvoicePatch) updates() map[string]interface{} {
	updates := make(map[string]interface{})
	if p.Year != nil {
		updates["year"] = *p.Year
	}
	if p.Month != nil {
		updates["month"] = *p.Month
	}
	if p.ClientName != nil {
		updates["client_name"] = *p.ClientName
	}
	if p.Amount != nil {
		updates["amount"] = *p.Amount
	}
	if p.BonusPercentage != nil {
		updates["bonus_percentage"] = *p.BonusPercentage
	}
	if p.Paid != nil {
		updates["paid"] = *p.Paid
	}
	return updates
}

// InvoiceService 发票业务服务
type InvoiceService struct {
	repo  repository.InvoiceRepository
	guard OwnershipGuard
}

// NewInvoiceService 创建发票服务
func NewInvoiceService(repo repository.InvoiceRepository, guard OwnershipGuard) *InvoiceService {
	return &InvoiceService{repo: repo, guard: guard}
}

// Create 校验并创建发票
// actor 非空时只能为自己创建，referrer 缺省取 actor
func (s *InvoiceService) Create(input InvoiceInput, actor string) (*models.Invoice, error) {
	actor = strings.TrimSpace(actor)
	input.ClientName = trimStringPtr(input.ClientName)
	input.Referrer = trimStringPtr(input.Referrer)
	input.CreatedBy = trimStringPtr(input.CreatedBy)

	if actor != "" {
		if input.Referrer == nil || *input.Referrer == "" {
			input.Referrer = &actor
		} else if *input.Referrer != actor {
			return nil, createNotAuthorized(*input.Referrer, actor)
		}
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	referrer := *input.Referrer
	if input.CreatedBy != nil && *input.CreatedBy != "" && *input.CreatedBy != referrer {
		return nil, validationError([]string{"createdBy"}, "createdBy must equal referrer")
	}

	invoice := &models.Invoice{
		Year:            *input.Year,
		Month:           *input.Month,
		ClientName:      *input.ClientName,
		Amount:          models.NewMoneyFromDecimal(input.Amount.Decimal),
		Referrer:        referrer,
		BonusPercentage: models.NewRateFromDecimal(input.BonusPercentage.Decimal),
		CreatedBy:       referrer,
	}
	if input.Paid != nil {
		invoice.Paid = *input.Paid
	}
	if err := s.repo.Create(invoice); err != nil {
		return nil, storeError("create invoice", err)
	}
	return invoice, nil
}

// Get 获取发票
func (s *InvoiceService) Get(id uint) (*models.Invoice, error) {
	invoice, err := s.repo.GetByID(id)
	if err != nil {
		return nil, storeError("load invoice", err)
	}
	if invoice == nil {
		return nil, invoiceNotFound(id)
	}
	return invoice, nil
}

// List 发票列表（id 倒序）
func (s *InvoiceService) List(filter repository.InvoiceListFilter) ([]models.Invoice, error) {
	invoices, err := s.repo.List(filter)
	if err != nil {
		return nil, storeError("list invoices", err)
	}
	return invoices, nil
}

// ListYears 推荐人有发票的年份（倒序）
func (s *InvoiceService) ListYears(referrer string) ([]int, error) {
	years, err := s.repo.ListYearsByReferrer(referrer)
	if err != nil {
		return nil, storeError("list invoice years", err)
	}
	return years, nil
}

// Update 在同一事务内加锁读取、授权并局部更新
func (s *InvoiceService) Update(id uint, patch InvoicePatch, actor string) (*models.Invoice, error) {
	actor = strings.TrimSpace(actor)
	patch.ClientName = trimStringPtr(patch.ClientName)
	patch.Referrer = trimStringPtr(patch.Referrer)
	patch.CreatedBy = trimStringPtr(patch.CreatedBy)

	var updated *models.Invoice
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		invoice, err := s.loadForMutation(txRepo, id, actor, constants.AuthzActionUpdate)
		if err != nil {
			return err
		}
		if err := validateInput(patch); err != nil {
			return err
		}
		if err := checkOwnerFieldsUnchanged(invoice, patch); err != nil {
			return err
		}

		updates := patch.updates()
		if len(updates) == 0 {
			updated = invoice
			return nil
		}
		if err := txRepo.UpdateFields(invoice.ID, updates); err != nil {
			return storeError("update invoice", err)
		}
		reloaded, err := txRepo.GetByID(invoice.ID)
		if err != nil {
			return storeError("reload invoice", err)
		}
		if reloaded == nil {
			return invoiceNotFound(id)
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetPaid 只更新发票结清状态
func (s *InvoiceService) SetPaid(id uint, paid bool, actor string) (*models.Invoice, error) {
	return s.Update(id, InvoicePatch{Paid: &paid}, actor)
}

// Delete 归属者永久删除发票
func (s *InvoiceService) Delete(id uint, actor string) error {
	actor = strings.TrimSpace(actor)
	return s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		invoice, err := s.loadForMutation(txRepo, id, actor, constants.AuthzActionDelete)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(invoice.ID); err != nil {
			return storeError("delete invoice", err)
		}
		return nil
	})
}

func (s *InvoiceService) loadForMutation(repo repository.InvoiceRepository, id uint, actor, action string) (*models.Invoice, error) {
	invoice, err := repo.GetByIDForUpdate(id)
	if err != nil {
		return nil, storeError("load invoice", err)
	}
	if invoice == nil {
		return nil, invoiceNotFound(id)
	}
	allowed, err := s.guard.CanMutateInvoice(actor, invoice.Owner(), action)
	if err != nil {
		return nil, storeError("authorize invoice", err)
	}
	if !allowed {
		return nil, invoiceNotAuthorized(invoice.ID, invoice.Owner(), actor, action)
	}
	return invoice, nil
}

// checkOwnerFieldsUnchanged 归属字段不可通过更新修改
func checkOwnerFieldsUnchanged(invoice *models.Invoice, patch InvoicePatch) error {
	fields := make([]string, 0, 2)
	if patch.Referrer != nil && *patch.Referrer != invoice.Referrer {
		fields = append(fields, "referrer")
	}
	if patch.CreatedBy != nil && *patch.CreatedBy != invoice.CreatedBy {
		fields = append(fields, "createdBy")
	}
	if len(fields) > 0 {
		return validationError(fields, "referrer and createdBy cannot be changed")
	}
	return nil
}
