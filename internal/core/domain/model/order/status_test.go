package order_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Strings(t *testing.T) {
	t.Run("should render the exact external vocabulary", func(t *testing.T) {
		expected := map[order.Status]string{
			order.Pending:                 "pending",
			order.Confirmed:               "confirmed",
			order.Processing:              "processing",
			order.OutForDelivery:          "out_for_delivery",
			order.Delivered:               "delivered",
			order.Cancelled:               "cancelled",
			order.Returned:                "returned",
			order.OnHold:                  "on_hold",
			order.Tent0:                   "0_tent",
			order.Tent1:                   "1_tent",
			order.Tent2:                   "2_tent",
			order.Tent3:                   "3_tent",
			order.Tent4:                   "4_tent",
			order.Tent5:                   "5_tent",
			order.Tent6:                   "6_tent",
			order.ImportToDeliveryCompany: "import_to_delivery_company",
		}

		for status, str := range expected {
			assert.Equal(t, str, status.String())
		}
	})

	t.Run("should render unknown for invalid values", func(t *testing.T) {
		assert.Equal(t, "unknown", order.Unknown.String())
		assert.Equal(t, "unknown", order.Status(99).String())
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("should round-trip every valid status", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			parsed, err := order.ParseStatus(status.String())

			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should reject unknown strings", func(t *testing.T) {
		for _, s := range []string{"", "unknown", "shipped", "PENDING"} {
			t.Run(fmt.Sprintf("should reject %q", s), func(t *testing.T) {
				_, err := order.ParseStatus(s)

				require.Error(t, err)
				assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			})
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate every member of the vocabulary", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			require.NoError(t, status.Validate())
		}
	})

	t.Run("should reject Unknown and out-of-range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(100)} {
			err := status.Validate()

			require.Error(t, err)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		}
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Pending:        {order.Confirmed, order.Cancelled, order.OnHold},
		order.Confirmed:      {order.Processing, order.Cancelled, order.OnHold, order.ImportToDeliveryCompany},
		order.Processing:     {order.OutForDelivery, order.Cancelled, order.OnHold},
		order.OutForDelivery: {order.Delivered, order.Returned, order.Cancelled},
		order.OnHold:         {order.Pending, order.Confirmed, order.Cancelled},
		order.Returned:       {order.Pending, order.Cancelled},
	}

	t.Run("should match the transition table exhaustively", func(t *testing.T) {
		for _, from := range order.AllStatuses() {
			for _, to := range order.AllStatuses() {
				expected := false
				for _, target := range allowed[from] {
					if target == to {
						expected = true
						break
					}
				}

				assert.Equal(t, expected, from.CanTransitionTo(to),
					"transition %s -> %s", from, to)
			}
		}
	})

	t.Run("should allow import only from confirmed", func(t *testing.T) {
		for _, from := range order.AllStatuses() {
			got := from.CanTransitionTo(order.ImportToDeliveryCompany)
			assert.Equal(t, from == order.Confirmed, got, "from %s", from)
		}
	})

	t.Run("should allow nothing out of terminal statuses", func(t *testing.T) {
		for _, from := range []order.Status{order.Delivered, order.Cancelled} {
			for _, to := range order.AllStatuses() {
				assert.False(t, from.CanTransitionTo(to), "transition %s -> %s", from, to)
			}
		}
	})

	t.Run("should allow nothing out of negotiation sub-states", func(t *testing.T) {
		tents := []order.Status{
			order.Tent0, order.Tent1, order.Tent2, order.Tent3,
			order.Tent4, order.Tent5, order.Tent6,
		}
		for _, from := range tents {
			for _, to := range order.AllStatuses() {
				assert.False(t, from.CanTransitionTo(to), "transition %s -> %s", from, to)
			}
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[order.Status]bool{
		order.Delivered: true,
		order.Cancelled: true,
		order.Returned:  true,
	}

	for _, status := range order.AllStatuses() {
		assert.Equal(t, terminal[status], status.IsTerminal(), "status %s", status)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	t.Run("should parse the payment vocabulary", func(t *testing.T) {
		cases := map[string]order.PaymentStatus{
			"unpaid":      order.Unpaid,
			"cod_pending": order.CodPending,
			"paid":        order.Paid,
		}

		for s, expected := range cases {
			parsed, err := order.ParsePaymentStatus(s)

			require.NoError(t, err)
			assert.Equal(t, expected, parsed)
		}
	})

	t.Run("should reject unknown strings", func(t *testing.T) {
		_, err := order.ParsePaymentStatus("refunded")

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
	})
}
