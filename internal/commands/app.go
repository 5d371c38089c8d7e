package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gharkhata/gharkhata/internal/accounts"
	"github.com/gharkhata/gharkhata/internal/budget"
	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/categories"
	"github.com/gharkhata/gharkhata/internal/config"
	"github.com/gharkhata/gharkhata/internal/creditcard"
	"github.com/gharkhata/gharkhata/internal/household"
	"github.com/gharkhata/gharkhata/internal/ledger"
	"github.com/gharkhata/gharkhata/internal/loan"
	"github.com/gharkhata/gharkhata/internal/logging"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/recurring"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/snapshot"
	"github.com/gharkhata/gharkhata/internal/store"
)

// app wires the document store, session and services for one CLI run.
type app struct {
	cfg  *config.Config
	st   store.Store
	sess *session.Session
	bus  *bus.Bus
	log  zerolog.Logger

	ledger     *ledger.Service
	accounts   *accounts.Service
	categories *categories.Service
	creditcard *creditcard.Service
	loans      *loan.Service
	recurring  *recurring.Service
	budgets    *budget.Service
	household  *household.Service
	snapshot   *snapshot.Publisher
}

// openApp loads config, opens the store and logs the owner in against the
// stored household. When the household is missing (fresh or degraded
// startup) it is provisioned from config with a logged warning.
func openApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logging.New()

	var st store.Store
	switch cfg.Store.Backend {
	case "", "sqlite":
		st, err = store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
	case "memory":
		log.Warn().Msg("using in-memory store; nothing will persist")
		st = store.NewMemory()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	sess := session.New()
	b := bus.New()

	a := &app{
		cfg:  cfg,
		st:   st,
		sess: sess,
		bus:  b,
		log:  log,
	}
	a.household = household.NewService(st, log)
	a.ledger = ledger.NewService(st, sess, b, log)
	a.accounts = accounts.NewService(st, sess, b, log)
	a.categories = categories.NewService(st, sess, b, log)
	a.creditcard = creditcard.NewService(st, sess, b, log)
	a.loans = loan.NewService(st, sess, b, log)
	a.recurring = recurring.NewService(st, sess, b, a.ledger, log)
	a.budgets = budget.NewService(st, sess, b, log)
	a.snapshot = snapshot.NewPublisher(st, log)

	owner := model.User{ID: cfg.Owner.UserID, Name: cfg.Owner.Name}
	h, err := a.household.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no household in store; provisioning from config")
		h, err = a.household.Bootstrap(ctx, cfg.Household.Name, owner)
		if err != nil {
			st.Close()
			return nil, err
		}
	}
	sess.Login(h.ID, owner)
	return a, nil
}

// Close releases the store.
func (a *app) Close() error {
	return a.st.Close()
}

// findAccount resolves a user-supplied reference to an account or credit
// card id, trying ids first, then case-insensitive names.
func (a *app) findAccount(ctx context.Context, ref string) (string, error) {
	if _, err := a.st.GetAccount(ctx, ref); err == nil {
		return ref, nil
	}
	if _, err := a.st.GetCreditCard(ctx, ref); err == nil {
		return ref, nil
	}

	accts, err := a.accounts.GetAll(ctx)
	if err != nil {
		return "", err
	}
	for _, acct := range accts {
		if strings.EqualFold(acct.Name, ref) {
			return acct.ID, nil
		}
	}
	cards, err := a.creditcard.GetAll(ctx)
	if err != nil {
		return "", err
	}
	for _, card := range cards {
		if strings.EqualFold(card.Name, ref) {
			return card.ID, nil
		}
	}
	return "", fmt.Errorf("no account or credit card named %q", ref)
}
