package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TitleKind string

const (
	KindReceivable TitleKind = "RECEIVABLE"
	KindPayable    TitleKind = "PAYABLE"
)

type TitleStatus string

const (
	StatusOpen      TitleStatus = "OPEN"
	StatusPaid      TitleStatus = "PAID"
	StatusCancelled TitleStatus = "CANCELLED"
)

// FinancialTitle is a money obligation (receivable or payable) optionally
// linked to the order that generated it.
type FinancialTitle struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	TenantID    snowflake.ID    `json:"-" gorm:"not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Kind        TitleKind       `json:"kind" gorm:"type:text;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
	DueDate     time.Time       `json:"dueDate" gorm:"type:date;not null"`
	Status      TitleStatus     `json:"status" gorm:"type:text;not null;default:'OPEN'"`
	CustomerID  *snowflake.ID   `json:"customerId,omitempty"`
	OrderID     *snowflake.ID   `json:"orderId,omitempty" gorm:"index"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (FinancialTitle) TableName() string { return "financial_titles" }

type Repository interface {
	CreateTitle(ctx context.Context, tx *gorm.DB, title *FinancialTitle) error
	FindTitles(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, kind *TitleKind) ([]FinancialTitle, error)
}

type Service interface {
	// CreateReceivableForOrder emits a due-today receivable title linked to
	// the order. Runs on the caller's transaction so a failed transition
	// rolls the title back too.
	CreateReceivableForOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID,
		displayID int64, amount decimal.Decimal, customerID *snowflake.ID) (*FinancialTitle, error)
	ListTitles(ctx context.Context, kind *TitleKind) ([]FinancialTitle, error)
}
