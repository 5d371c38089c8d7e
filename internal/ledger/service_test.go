package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/logging"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *store.Memory, *bus.Bus) {
	t.Helper()
	st := store.NewMemory()
	sess := session.New()
	sess.Login("hh", model.User{ID: "u1", Name: "Asha"})
	b := bus.New()
	return NewService(st, sess, b, logging.Nop()), st, b
}

func seedAccount(t *testing.T, st *store.Memory, name, balance string) *model.Account {
	t.Helper()
	a := &model.Account{
		HouseholdID: "hh",
		Name:        name,
		Type:        model.AccountTypeChecking,
		Balance:     dec(balance),
		Currency:    "INR",
	}
	require.NoError(t, st.CreateAccount(context.Background(), a))
	return a
}

func seedCard(t *testing.T, st *store.Memory, name, outstanding string) *model.CreditCard {
	t.Helper()
	c := &model.CreditCard{
		HouseholdID:        "hh",
		Name:               name,
		CreditLimit:        dec("100000"),
		CurrentOutstanding: dec(outstanding),
		BillingCycleDay:    15,
	}
	require.NoError(t, st.CreateCreditCard(context.Background(), c))
	return c
}

func TestCreate_ExpenseDebitsAccount(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	acct := seedAccount(t, st, "HDFC", "1000")

	txn, err := svc.Create(ctx, CreateParams{
		Date:      date(2025, 3, 5),
		Amount:    dec("150"),
		Type:      model.TypeExpense,
		AccountID: acct.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "u1", txn.CreatedBy)

	got, err := st.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("850")), "balance %s", got.Balance)
}

func TestCreate_IncomeCreditsAccount(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	acct := seedAccount(t, st, "HDFC", "1000")

	_, err := svc.Create(ctx, CreateParams{
		Date:      date(2025, 3, 1),
		Amount:    dec("500"),
		Type:      model.TypeIncome,
		AccountID: acct.ID,
	})
	require.NoError(t, err)

	got, err := st.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("1500")))
}

func TestUpdateAndDelete_RoundTripRestoresBalance(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	acct := seedAccount(t, st, "HDFC", "1000")

	txn, err := svc.Create(ctx, CreateParams{
		Date:      date(2025, 3, 5),
		Amount:    dec("150"),
		Type:      model.TypeExpense,
		AccountID: acct.ID,
	})
	require.NoError(t, err)

	// Raising the amount reverts the old effect and applies the new one.
	newAmount := dec("200")
	_, err = svc.Update(ctx, txn.ID, UpdateParams{Amount: &newAmount})
	require.NoError(t, err)
	got, err := st.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("800")), "balance %s", got.Balance)

	// Deleting restores the opening balance exactly.
	require.NoError(t, svc.Delete(ctx, txn.ID))
	got, err = st.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("1000")), "balance %s", got.Balance)
}

func TestCreate_TransferMovesMoney(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	src := seedAccount(t, st, "HDFC", "1000")
	dst := seedAccount(t, st, "SBI", "200")

	txn, err := svc.Create(ctx, CreateParams{
		Date:              date(2025, 3, 10),
		Amount:            dec("300"),
		Type:              model.TypeTransfer,
		AccountID:         src.ID,
		TransferAccountID: dst.ID,
	})
	require.NoError(t, err)

	gotSrc, err := st.GetAccount(ctx, src.ID)
	require.NoError(t, err)
	gotDst, err := st.GetAccount(ctx, dst.ID)
	require.NoError(t, err)
	assert.True(t, gotSrc.Balance.Equal(dec("700")))
	assert.True(t, gotDst.Balance.Equal(dec("500")))

	// Deleting the transfer reverts both legs.
	require.NoError(t, svc.Delete(ctx, txn.ID))
	gotSrc, _ = st.GetAccount(ctx, src.ID)
	gotDst, _ = st.GetAccount(ctx, dst.ID)
	assert.True(t, gotSrc.Balance.Equal(dec("1000")))
	assert.True(t, gotDst.Balance.Equal(dec("200")))
}

func TestCreate_ExpenseOnCardRaisesOutstanding(t *testing.T) {
	ctx := context.Background()
	svc, st, b := newTestService(t)
	card := seedCard(t, st, "Visa", "0")

	var published []bus.Topic
	b.Subscribe(bus.TopicCreditCards, func(topic bus.Topic) {
		published = append(published, topic)
	})

	_, err := svc.Create(ctx, CreateParams{
		Date:      date(2025, 3, 5),
		Amount:    dec("2500"),
		Type:      model.TypeExpense,
		AccountID: card.ID,
	})
	require.NoError(t, err)

	got, err := st.GetCreditCard(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentOutstanding.Equal(dec("2500")))
	assert.Len(t, published, 1, "card change must be announced")
}

func TestCreate_PaymentOnCardClampsAtZero(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	card := seedCard(t, st, "Visa", "100")

	_, err := svc.Create(ctx, CreateParams{
		Date:      date(2025, 3, 6),
		Amount:    dec("250"),
		Type:      model.TypeIncome,
		AccountID: card.ID,
	})
	require.NoError(t, err)

	got, err := st.GetCreditCard(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentOutstanding.IsZero(), "outstanding %s", got.CurrentOutstanding)
}

func TestCreate_ValidationFailures(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	acct := seedAccount(t, st, "HDFC", "1000")

	_, err := svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("10"), Type: model.TypeExpense,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an account")

	_, err = svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("-10"), Type: model.TypeExpense, AccountID: acct.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")

	_, err = svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("10"), Type: model.TypeTransfer, AccountID: acct.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination")

	_, err = svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("10"), Type: model.TypeTransfer,
		AccountID: acct.ID, TransferAccountID: acct.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestCreate_SplitSumTolerance(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	acct := seedAccount(t, st, "HDFC", "1000")

	// A one-paisa gap is tolerated.
	_, err := svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("100"), Type: model.TypeExpense, AccountID: acct.ID,
		Splits: []model.Split{
			{CategoryID: "c1", Amount: dec("60.00")},
			{CategoryID: "c2", Amount: dec("39.99")},
		},
	})
	require.NoError(t, err)

	// A one-rupee gap is not.
	_, err = svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("100"), Type: model.TypeExpense, AccountID: acct.ID,
		Splits: []model.Split{
			{CategoryID: "c1", Amount: dec("60.00")},
			{CategoryID: "c2", Amount: dec("39.00")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}

func TestDelete_ToleratesMissingFundingSource(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	acct := seedAccount(t, st, "HDFC", "1000")

	txn, err := svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("150"), Type: model.TypeExpense, AccountID: acct.ID,
	})
	require.NoError(t, err)

	// The account vanishes underneath the ledger; the revert is skipped,
	// not failed.
	require.NoError(t, st.DeleteAccount(ctx, acct.ID))
	require.NoError(t, svc.Delete(ctx, txn.ID))

	_, err = svc.Get(ctx, txn.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete_AbsentTransactionIsNoOp(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Delete(context.Background(), "nope"))
}

func TestBulkUpdate_StopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	acct := seedAccount(t, st, "HDFC", "1000")

	t1, err := svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("10"), Type: model.TypeExpense, AccountID: acct.ID,
	})
	require.NoError(t, err)
	t2, err := svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 6), Amount: dec("20"), Type: model.TypeExpense, AccountID: acct.ID,
	})
	require.NoError(t, err)

	good := dec("15")
	bad := dec("-5")
	done, err := svc.BulkUpdate(ctx, []BulkItem{
		{ID: t1.ID, Params: UpdateParams{Amount: &good}},
		{ID: t2.ID, Params: UpdateParams{Amount: &bad}},
	})
	require.Error(t, err)
	assert.Len(t, done, 1, "first item applied before the failure")

	got, err := svc.Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("15")))
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	a := seedAccount(t, st, "HDFC", "1000")
	b := seedAccount(t, st, "SBI", "1000")

	_, err := svc.Create(ctx, CreateParams{
		Date: date(2025, 2, 28), Amount: dec("100"), Type: model.TypeIncome, AccountID: a.ID, CategoryID: "salary",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 5), Amount: dec("40"), Type: model.TypeExpense, AccountID: a.ID,
		Splits: []model.Split{
			{CategoryID: "groceries", Amount: dec("25")},
			{CategoryID: "dining", Amount: dec("15")},
		},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 10), Amount: dec("60"), Type: model.TypeTransfer, AccountID: a.ID, TransferAccountID: b.ID,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{
		Date: date(2025, 3, 12), Amount: dec("75"), Type: model.TypeInvestment, AccountID: b.ID, CategoryID: "mf",
	})
	require.NoError(t, err)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	// Inclusive on both ends.
	ranged, err := svc.GetByDateRange(ctx, date(2025, 3, 5), date(2025, 3, 10))
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	// Transfer destination counts as account involvement.
	byB, err := svc.GetByAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, byB, 2)

	// Split allocations count as category involvement.
	byCat, err := svc.GetByCategory(ctx, "dining")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)

	income, err := svc.TotalIncome(ctx, date(2025, 2, 1), date(2025, 3, 31))
	require.NoError(t, err)
	assert.True(t, income.Equal(dec("100")))
	expense, err := svc.TotalExpense(ctx, date(2025, 3, 1), date(2025, 3, 31))
	require.NoError(t, err)
	assert.True(t, expense.Equal(dec("40")))
	invested, err := svc.TotalInvestment(ctx, date(2025, 3, 1), date(2025, 3, 31))
	require.NoError(t, err)
	assert.True(t, invested.Equal(dec("75")))
}

func TestCreate_RequiresSession(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st, session.New(), bus.New(), logging.Nop())
	_, err := svc.Create(context.Background(), CreateParams{
		Date: date(2025, 3, 5), Amount: dec("10"), Type: model.TypeExpense, AccountID: "a",
	})
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
}
