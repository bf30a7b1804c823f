package payments

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jayrweg/afya-plus/internal/lib/sl"
	"github.com/jayrweg/afya-plus/internal/store"
)

// ipnAck is the acknowledgement body Pesapal expects in response to an
// IPN callback. Status 200 means the notification was consumed.
type ipnAck struct {
	OrderNotificationType  string `json:"orderNotificationType"`
	OrderTrackingID        string `json:"orderTrackingId"`
	OrderMerchantReference string `json:"orderMerchantReference"`
	Status                 int    `json:"status"`
}

type ipnBody struct {
	OrderTrackingID        string `json:"OrderTrackingId"`
	OrderNotificationType  string `json:"OrderNotificationType"`
	OrderMerchantReference string `json:"OrderMerchantReference"`
}

// IPN handles Pesapal instant payment notifications. The notification only
// says "something happened" about a tracking id, so the status is always
// re-fetched from the gateway before the order is marked paid. Payment state
// changes land in the order store; the user's session picks them up on their
// next "paid <token>" message.
func IPN(log *slog.Logger, orders *store.Orders, verifier Verifier) http.HandlerFunc {
	logger := log.With(sl.Module("handlers.payments"))

	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger.With(
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		trackingID := r.URL.Query().Get("OrderTrackingId")
		notifType := r.URL.Query().Get("OrderNotificationType")
		merchantRef := r.URL.Query().Get("OrderMerchantReference")

		if trackingID == "" && r.Method == http.MethodPost {
			var body ipnBody
			if err := render.DecodeJSON(r.Body, &body); err == nil {
				trackingID = body.OrderTrackingID
				notifType = body.OrderNotificationType
				merchantRef = body.OrderMerchantReference
			}
		}

		ack := ipnAck{
			OrderNotificationType:  notifType,
			OrderTrackingID:        trackingID,
			OrderMerchantReference: merchantRef,
			Status:                 http.StatusOK,
		}

		if trackingID == "" {
			logger.Warn("ipn without tracking id")
			ack.Status = http.StatusBadRequest
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ack)
			return
		}

		logger = logger.With(slog.String("order_tracking_id", trackingID))

		order := orders.GetByToken(trackingID)
		if order == nil {
			logger.Warn("ipn for unknown order")
			render.JSON(w, r, ack)
			return
		}

		status := "completed"
		if verifier != nil {
			var err error
			status, err = verifier.VerifyPayment(r.Context(), trackingID)
			if err != nil {
				logger.Error("failed to verify payment", sl.Err(err))
				ack.Status = http.StatusInternalServerError
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, ack)
				return
			}
		}

		if strings.EqualFold(status, "completed") {
			if err := orders.MarkPaid(r.Context(), trackingID); err != nil {
				logger.Error("failed to mark order paid", sl.Err(err))
			} else {
				logger.Info("order paid",
					slog.String("service", order.ServiceCode),
					slog.Int("amount_tzs", order.AmountTZS),
				)
			}
		} else {
			logger.Info("payment not completed", slog.String("status", status))
		}

		render.JSON(w, r, ack)
	}
}
