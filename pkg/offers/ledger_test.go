package offers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"startupconnect/pkg/apperr"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeOffer(amount string) Offer {
	o, _ := NewOffer(1, OfferInput{Amount: d(amount), EquityPercentage: d("10")}, now)
	o.ID = 42
	return o
}

func TestNewOffer(t *testing.T) {
	o, err := NewOffer(5, OfferInput{Amount: d("50000"), EquityPercentage: d("12.5"), Terms: "SAFE"}, now)

	require.NoError(t, err)
	require.Equal(t, StatusActive, o.Status)
	require.True(t, o.IsActive)
	require.True(t, o.RemainingAmount.Equal(o.Amount))
	require.Nil(t, o.InvestorUserID)
	require.Equal(t, int64(5), o.StartupID)
}

func TestNewOffer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		equity string
		want   error
	}{
		{"zero amount", "0", "10", ErrInvalidAmount},
		{"negative amount", "-1", "10", ErrInvalidAmount},
		{"zero equity", "100", "0", ErrInvalidEquity},
		{"equity over 100", "100", "100.01", ErrInvalidEquity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOffer(1, OfferInput{Amount: d(tt.amount), EquityPercentage: d(tt.equity)}, now)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := NewOffer(1, OfferInput{Amount: d("100"), EquityPercentage: d("100")}, now)
	require.NoError(t, err)
}

func TestNewOffer_StorableValues(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		equity string
		want   error
	}{
		{"sub-cent amount", "100.001", "10", ErrTooManyDecimals},
		{"sub-cent equity", "100", "10.125", ErrTooManyDecimals},
		{"amount at 10^16", "10000000000000000", "10", ErrAmountTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOffer(1, OfferInput{Amount: d(tt.amount), EquityPercentage: d(tt.equity)}, now)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := NewOffer(1, OfferInput{Amount: d("9999999999999999.99"), EquityPercentage: d("12.50")}, now)
	require.NoError(t, err)
}

func TestDecrement_ReachesZeroAndCloses(t *testing.T) {
	o := activeOffer("1000")

	o, err := Decrement(o, d("400"), now)
	require.NoError(t, err)
	require.True(t, o.RemainingAmount.Equal(d("600")))
	require.Equal(t, StatusActive, o.Status)

	o, err = Decrement(o, d("600"), now)
	require.NoError(t, err)
	require.True(t, o.RemainingAmount.IsZero())
	require.Equal(t, StatusClosed, o.Status)
	require.False(t, o.IsActive)
}

func TestDecrement_NeverNegative(t *testing.T) {
	o := activeOffer("100")

	_, err := Decrement(o, d("100.01"), now)

	require.ErrorIs(t, err, ErrInsufficientRemaining)
	require.Equal(t, apperr.InvalidRange, apperr.KindOf(err))
}

func TestDecrement_RejectsNonPositiveDelta(t *testing.T) {
	o := activeOffer("100")

	_, err := Decrement(o, decimal.Zero, now)
	require.ErrorIs(t, err, ErrInvalidDelta)

	_, err = Decrement(o, d("-5"), now)
	require.ErrorIs(t, err, ErrInvalidDelta)
}

func TestDecrement_RejectsSubCentDelta(t *testing.T) {
	o := activeOffer("100000")

	_, err := Decrement(o, d("0.001"), now)

	require.ErrorIs(t, err, ErrTooManyDecimals)
}

func TestDecrement_ClosedOfferReportsInsufficientRemaining(t *testing.T) {
	o := activeOffer("100000")

	o, err := Decrement(o, d("40000"), now)
	require.NoError(t, err)
	require.True(t, o.RemainingAmount.Equal(d("60000")))
	require.Equal(t, StatusActive, o.Status)

	o, err = Decrement(o, d("60000"), now)
	require.NoError(t, err)
	require.True(t, o.RemainingAmount.IsZero())
	require.Equal(t, StatusClosed, o.Status)

	_, err = Decrement(o, d("1"), now)
	require.ErrorIs(t, err, ErrInsufficientRemaining)
	require.NotErrorIs(t, err, ErrOfferTerminal)
}

func TestDecrement_TerminalOffer(t *testing.T) {
	o := activeOffer("100")
	o.Status = StatusExpired
	o.IsActive = false

	_, err := Decrement(o, d("10"), now)

	require.ErrorIs(t, err, ErrOfferTerminal)
}

func TestDecrement_FractionalAmountsStayExact(t *testing.T) {
	o := activeOffer("0.3")

	o, err := Decrement(o, d("0.1"), now)
	require.NoError(t, err)
	o, err = Decrement(o, d("0.2"), now)
	require.NoError(t, err)

	require.True(t, o.RemainingAmount.IsZero())
	require.Equal(t, StatusClosed, o.Status)
}

func TestAccept_SetsInvestorOnce(t *testing.T) {
	o := activeOffer("1000")

	accepted, err := Accept(o, 9, now)
	require.NoError(t, err)
	require.NotNil(t, accepted.InvestorUserID)
	require.Equal(t, int64(9), *accepted.InvestorUserID)
	require.Equal(t, StatusClosed, accepted.Status)
	require.False(t, accepted.IsActive)

	_, err = Accept(accepted, 10, now)
	require.ErrorIs(t, err, ErrAlreadyClosed)
	require.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}

func TestAccept_NegotiatingOfferAllowed(t *testing.T) {
	o := activeOffer("1000")
	o.Status = StatusNegotiating

	accepted, err := Accept(o, 3, now)

	require.NoError(t, err)
	require.Equal(t, StatusClosed, accepted.Status)
}

func TestAccept_ExpiredOffer(t *testing.T) {
	o := activeOffer("1000")
	o.Status = StatusExpired

	_, err := Accept(o, 3, now)

	require.ErrorIs(t, err, ErrOfferTerminal)
}

func TestApplyUpdate_LeavesRemainingAndStatus(t *testing.T) {
	o := activeOffer("1000")
	o, err := Decrement(o, d("300"), now)
	require.NoError(t, err)
	o.Status = StatusNegotiating

	updated, err := ApplyUpdate(o, OfferInput{Amount: d("2000"), EquityPercentage: d("15"), Description: "bigger"}, now)

	require.NoError(t, err)
	require.True(t, updated.Amount.Equal(d("2000")))
	require.True(t, updated.RemainingAmount.Equal(d("700")))
	require.Equal(t, StatusNegotiating, updated.Status)
	require.True(t, updated.EquityPercentage.Equal(d("15")))
	require.Equal(t, "bigger", updated.Description)
}

func TestApplyUpdate_AmountBelowRemaining(t *testing.T) {
	o := activeOffer("1000")
	o, err := Decrement(o, d("400"), now)
	require.NoError(t, err)

	_, err = ApplyUpdate(o, OfferInput{Amount: d("599.99"), EquityPercentage: d("10")}, now)
	require.ErrorIs(t, err, ErrAmountBelowRemaining)
	require.Equal(t, apperr.InvalidRange, apperr.KindOf(err))

	updated, err := ApplyUpdate(o, OfferInput{Amount: d("600"), EquityPercentage: d("10")}, now)
	require.NoError(t, err)
	require.True(t, updated.RemainingAmount.Equal(updated.Amount))
}

func TestApplyUpdate_TerminalOffer(t *testing.T) {
	o := activeOffer("1000")
	o.Status = StatusClosed

	_, err := ApplyUpdate(o, OfferInput{Amount: d("1000"), EquityPercentage: d("10")}, now)

	require.ErrorIs(t, err, ErrOfferTerminal)
}

func TestTransitionStatus(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusActive, StatusNegotiating, true},
		{StatusActive, StatusClosed, true},
		{StatusActive, StatusExpired, true},
		{StatusNegotiating, StatusActive, true},
		{StatusNegotiating, StatusClosed, true},
		{StatusClosed, StatusActive, false},
		{StatusClosed, StatusNegotiating, false},
		{StatusExpired, StatusActive, false},
		{StatusExpired, StatusClosed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			o := activeOffer("100")
			o.Status = tt.from

			got, err := TransitionStatus(o, tt.to, now)
			if !tt.allowed {
				require.ErrorIs(t, err, ErrStatusTransition)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.to, got.Status)
			require.Equal(t, !tt.to.Terminal(), got.IsActive)
		})
	}
}

func TestTransitionStatus_UnknownStatus(t *testing.T) {
	_, err := TransitionStatus(activeOffer("100"), Status("PAUSED"), now)

	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus(" negotiating ")
	require.True(t, ok)
	require.Equal(t, StatusNegotiating, st)

	_, ok = ParseStatus("open")
	require.False(t, ok)
}
