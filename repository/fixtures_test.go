package repository_test

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

type accountID string

type accountOpened struct {
	kernel.EventBase
	AccountID string
}

func (e accountOpened) EventType() string { return "AccountOpened" }

type account struct {
	kernel.AggregateRoot[accountID]
	kernel.AuditInfo
	owner string
}

func openAccount(id accountID, owner string) *account {
	root, raise := kernel.NewAggregateRoot(id)
	a := &account{AggregateRoot: root, owner: owner}
	raise(accountOpened{EventBase: kernel.NewEventBase(time.Now()), AccountID: string(id)})

	return a
}
