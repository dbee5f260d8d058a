package pos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionWithCart(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.AddItem(product(1, "Burger", 10), 2, "")
	return s
}

func TestSendToKitchenEmptyCartRejected(t *testing.T) {
	s := NewSession()

	err := s.SendToKitchen()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.False(t, s.SentToKitchen())
}

func TestCheckoutBlockedBeforeKitchenSend(t *testing.T) {
	s := sessionWithCart(t)

	var blocked *BlockedActionError
	require.ErrorAs(t, s.ProcessOrder(), &blocked)
	_, err := s.FreezeOrder(FreezeMeta{Table: "5"})
	require.ErrorAs(t, err, &blocked)

	// State untouched: same cart, gate still closed.
	require.Len(t, s.Items(), 1)
	require.False(t, s.SentToKitchen())
	require.Equal(t, StepCart, s.Step())
}

func TestAddItemClosesGate(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	require.True(t, s.SentToKitchen())

	s.AddItem(product(2, "Fries", 4), 1, "")
	require.False(t, s.SentToKitchen())
}

func TestFreezeOrderParksCartSnapshot(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())

	frozen, err := s.FreezeOrder(FreezeMeta{Table: "5", Customer: ""})
	require.NoError(t, err)
	require.Equal(t, TypeFreeze, frozen.Type)
	require.Equal(t, StatusPending, frozen.Status)
	require.False(t, frozen.IsPaid)
	require.Equal(t, 20.0, frozen.Total)
	require.Equal(t, "5", frozen.Table)

	require.Len(t, s.Items(), 0)
	require.False(t, s.SentToKitchen())
	require.Len(t, s.Roster().Frozen, 1)
}

func TestFreezeEditFreezeDoesNotDuplicate(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())

	frozen, err := s.FreezeOrder(FreezeMeta{Table: "5"})
	require.NoError(t, err)

	require.NoError(t, s.EditFrozenOrder(frozen.ID))
	require.True(t, s.SentToKitchen())
	require.Len(t, s.Items(), 1)

	// Adding while editing keeps the gate open.
	s.AddItem(product(2, "Fries", 4), 1, "")
	require.True(t, s.SentToKitchen())

	updated, err := s.FreezeOrder(FreezeMeta{Table: "7"})
	require.NoError(t, err)
	require.Equal(t, frozen.ID, updated.ID)
	require.Equal(t, "7", updated.Table)
	require.Equal(t, 24.0, updated.Total)

	roster := s.Roster()
	require.Len(t, roster.Frozen, 1)
}

func TestRecoverFrozenOrder(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	frozen, err := s.FreezeOrder(FreezeMeta{Table: "5"})
	require.NoError(t, err)

	require.NoError(t, s.RecoverFrozenOrder(frozen.ID))
	require.Len(t, s.Roster().Frozen, 0)
	require.Len(t, s.Items(), len(frozen.Items))
	require.True(t, s.SentToKitchen())

	var nf *NotFoundError
	require.ErrorAs(t, s.RecoverFrozenOrder(frozen.ID), &nf)
}

func TestConfirmAfterRecoverFinalizesDirectly(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	frozen, err := s.FreezeOrder(FreezeMeta{Table: "5"})
	require.NoError(t, err)
	require.NoError(t, s.RecoverFrozenOrder(frozen.ID))

	require.NoError(t, s.ProcessOrder())
	require.NoError(t, s.SubmitDetails(Details{Type: TypeDineIn, Table: "5"}))
	require.NoError(t, s.SubmitPayment(Payment{Method: "cash", Amount: 20}))

	order, err := s.ConfirmOrder()
	require.NoError(t, err)
	require.Equal(t, frozen.ID, order.ID)
	require.Equal(t, StatusCompleted, order.Status)
	require.True(t, order.IsPaid)

	// Bypasses the roster entirely and resets the session.
	roster := s.Roster()
	require.Empty(t, roster.Pending)
	require.Empty(t, roster.Frozen)
	require.Len(t, s.Items(), 0)
	require.Equal(t, StepCart, s.Step())
	require.False(t, s.SentToKitchen())
}

func TestRefreezeSupersedesRecovery(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	original, err := s.FreezeOrder(FreezeMeta{Table: "5"})
	require.NoError(t, err)

	// Staff recovers the order but re-parks it instead of checking out.
	require.NoError(t, s.RecoverFrozenOrder(original.ID))
	reparked, err := s.FreezeOrder(FreezeMeta{Table: "5"})
	require.NoError(t, err)
	require.NotEqual(t, original.ID, reparked.ID)

	// A brand-new cart checked out afterwards is an ordinary order: it
	// enters the pending roster and keeps nothing of the recovered one.
	s.AddItem(product(2, "Fries", 4), 1, "")
	order := confirmOrder(t, s)
	require.Equal(t, StatusPending, order.Status)
	require.NotEqual(t, original.ID, order.ID)

	roster := s.Roster()
	require.Len(t, roster.Pending, 1)
	require.Len(t, roster.Frozen, 1)
}

func TestConfirmCreatesPendingPaidRosterEntry(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	require.NoError(t, s.ProcessOrder())
	require.NoError(t, s.SubmitDetails(Details{Type: TypeTakeaway, Customer: "Ana"}))
	require.NoError(t, s.SubmitPayment(Payment{Method: "card", Amount: 20}))

	order, err := s.ConfirmOrder()
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.True(t, order.IsPaid)
	require.Equal(t, "Ana", order.Customer)

	roster := s.Roster()
	require.Len(t, roster.Pending, 1)
	require.Len(t, s.Items(), 0)
	require.Equal(t, StepCart, s.Step())
}

func TestWizardStepValidation(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	require.NoError(t, s.ProcessOrder())

	var ve *ValidationError
	err := s.SubmitDetails(Details{Type: TypeDineIn})
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "table", ve.Field)

	err = s.SubmitDetails(Details{Type: TypeDelivery})
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "customer", ve.Field)

	// Still on details; payment is out of order.
	err = s.SubmitPayment(Payment{Method: "cash"})
	require.ErrorAs(t, err, &ve)

	require.NoError(t, s.SubmitDetails(Details{Type: TypeDineIn, Table: "2"}))
	err = s.SubmitPayment(Payment{})
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "method", ve.Field)
}

func TestCancelCheckoutKeepsCart(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	require.NoError(t, s.ProcessOrder())

	s.CancelCheckout()
	require.Equal(t, StepCart, s.Step())
	require.Len(t, s.Items(), 1)
	require.True(t, s.SentToKitchen())
}

func confirmOrder(t *testing.T, s *Session) Order {
	t.Helper()
	require.NoError(t, s.SendToKitchen())
	require.NoError(t, s.ProcessOrder())
	require.NoError(t, s.SubmitDetails(Details{Type: TypeDineIn, Table: "1"}))
	require.NoError(t, s.SubmitPayment(Payment{Method: "cash"}))
	order, err := s.ConfirmOrder()
	require.NoError(t, err)
	return order
}

func TestStatusProgressionIsMonotonic(t *testing.T) {
	s := sessionWithCart(t)
	order := confirmOrder(t, s)

	var invalid *InvalidTransitionError
	_, err := s.UpdateStatus(order.ID, StatusReady)
	require.ErrorAs(t, err, &invalid)

	got, err := s.UpdateStatus(order.ID, StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, got.Status)

	_, err = s.UpdateStatus(order.ID, StatusPending)
	require.ErrorAs(t, err, &invalid)

	got, err = s.UpdateStatus(order.ID, StatusReady)
	require.NoError(t, err)
	require.Equal(t, StatusReady, got.Status)
}

func TestFinalizeRequiresPaymentAndReadyStatus(t *testing.T) {
	s := sessionWithCart(t)
	order := confirmOrder(t, s)

	// Not ready yet.
	var invalid *InvalidTransitionError
	_, err := s.Finalize(order.ID)
	require.ErrorAs(t, err, &invalid)
	require.Len(t, s.Roster().Pending, 1)

	_, err = s.UpdateStatus(order.ID, StatusInProgress)
	require.NoError(t, err)
	_, err = s.UpdateStatus(order.ID, StatusReady)
	require.NoError(t, err)

	done, err := s.Finalize(order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, done.Status)

	roster := s.Roster()
	require.Empty(t, roster.Pending)
	require.Empty(t, roster.InProgress)
	require.Empty(t, roster.Ready)
}

func TestFinalizeUnpaidOrderRejected(t *testing.T) {
	s := NewSession()
	s.roster = append(s.roster, Order{
		ID:     "unpaid",
		Status: StatusReady,
		Type:   TypeDineIn,
		IsPaid: false,
		Total:  12,
	})

	var ve *ValidationError
	_, err := s.Finalize("unpaid")
	require.ErrorAs(t, err, &ve)
	require.Len(t, s.Roster().Ready, 1)
}

func TestFrozenOrdersExcludedFromProgression(t *testing.T) {
	s := sessionWithCart(t)
	require.NoError(t, s.SendToKitchen())
	frozen, err := s.FreezeOrder(FreezeMeta{Table: "3"})
	require.NoError(t, err)

	// Frozen entries are not part of the progression at all.
	var nf *NotFoundError
	_, err = s.Finalize(frozen.ID)
	require.ErrorAs(t, err, &nf)
	_, err = s.UpdateStatus(frozen.ID, StatusInProgress)
	require.ErrorAs(t, err, &nf)
	require.Len(t, s.Roster().Frozen, 1)
}
