package repositories

import "gorm.io/gorm"

// TxRepos is the set of repositories bound to one open transaction.
type TxRepos struct {
	Orders   OrderRepository
	Payments PaymentRepository
}

// Transactor runs a unit of work with every repository in TxRepos bound
// to the same transaction, so money moves spanning the orders and
// payment_intents tables commit or roll back together.
type Transactor interface {
	WithTx(fn func(repos TxRepos) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithTx(fn func(repos TxRepos) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(TxRepos{
			Orders:   NewOrderRepository(tx),
			Payments: NewPaymentRepository(tx),
		})
	})
}
