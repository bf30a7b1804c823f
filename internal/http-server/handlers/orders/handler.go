package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/jayrweg/afya-plus/entity"
	resp "github.com/jayrweg/afya-plus/internal/lib/api/response"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
	"github.com/jayrweg/afya-plus/internal/store"
)

type Response struct {
	resp.Response
	Count  int             `json:"count"`
	Orders []*entity.Order `json:"orders"`
}

// List returns every order known to the store, newest state included.
// Admin surface, key-protected upstream.
func List(log *slog.Logger, orders *store.Orders) http.HandlerFunc {
	logger := log.With(sl.Module("handlers.orders"))

	return func(w http.ResponseWriter, r *http.Request) {
		all := orders.All()
		logger.Debug("orders listed", slog.Int("count", len(all)))

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Count:    len(all),
			Orders:   all,
		})
	}
}
