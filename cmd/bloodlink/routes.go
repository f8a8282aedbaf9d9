package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/handler"
	"github.com/bloodlink/bloodlink/modules/account"
	"github.com/bloodlink/bloodlink/modules/bloodrequest"
	"github.com/bloodlink/bloodlink/modules/donor"
	"github.com/bloodlink/bloodlink/modules/healthcenter"
	"github.com/bloodlink/bloodlink/modules/telegram"
	"github.com/bloodlink/bloodlink/pkg/clientip"
	"github.com/bloodlink/bloodlink/pkg/requestid"
)

const apiVersion = "1.0.0"

type routes struct {
	responder   *handler.ErrorResponder
	frontendURL string
	health      http.HandlerFunc
	apiLimit    func(http.Handler) http.Handler
	account     *account.Handlers
	donors      *donor.Handlers
	centers     *healthcenter.Handlers
	requests    *bloodrequest.Handlers
	telegram    *telegram.Handlers
}

func (rt routes) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware, middleware.Recoverer)
	r.Use(securityHeaders()...)
	r.Use(cors(rt.frontendURL), middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.responder.Write(w, r, core.NewHTTPError(http.StatusNotFound, "ROUTE_NOT_FOUND",
			"Cannot "+r.Method+" "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.responder.Write(w, r, core.ErrMethodNotAllowed)
	})

	r.Get("/health", rt.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(rt.apiLimit)
		r.Get("/", handler.Wrap[handler.Context, struct{}](apiIndex))
		r.Mount("/auth", rt.account.AuthRouter())
		r.Mount("/users", rt.account.UsersRouter())
		r.Mount("/donors", rt.donors.Router())
		r.Mount("/health-centers", rt.centers.Router())
		r.Mount("/blood-requests", rt.requests.Router())
		r.Mount("/telegram", rt.telegram.Router())
	})
	return r
}

type endpoints map[string]map[string]string

type index struct {
	Version   string    `json:"version"`
	Endpoints endpoints `json:"endpoints"`
}

func apiIndex(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(index{
		Version: apiVersion,
		Endpoints: endpoints{
			"auth": {
				"register":        "POST /api/auth/register",
				"login":           "POST /api/auth/login",
				"refresh":         "POST /api/auth/refresh",
				"logout":          "POST /api/auth/logout",
				"me":              "GET /api/auth/me",
				"forgot-password": "POST /api/auth/forgot-password",
				"reset-password":  "POST /api/auth/reset-password",
				"change-password": "PUT /api/auth/change-password",
			},
			"users": {
				"profile":        "GET /api/users/profile",
				"update-profile": "PUT /api/users/profile",
				"stats":          "GET /api/users/stats",
				"deactivate":     "DELETE /api/users/account",
			},
			"donors": {
				"list":                "GET /api/donors",
				"stats":               "GET /api/donors/stats",
				"profile":             "GET /api/donors/profile",
				"update-availability": "PUT /api/donors/availability",
				"record-donation":     "POST /api/donors/donations",
				"donation-history":    "GET /api/donors/donations",
			},
			"healthCenters": {
				"list":           "GET /api/health-centers",
				"stats":          "GET /api/health-centers/stats",
				"profile":        "GET /api/health-centers/profile",
				"update-profile": "PUT /api/health-centers/profile",
				"verification":   "POST /api/health-centers/verification",
				"search-donors":  "GET /api/health-centers/search-donors",
			},
			"bloodRequests": {
				"create":     "POST /api/blood-requests",
				"list":       "GET /api/blood-requests",
				"donor-feed": "GET /api/blood-requests/donor",
				"get":        "GET /api/blood-requests/{id}",
				"update":     "PUT /api/blood-requests/{id}",
				"cancel":     "DELETE /api/blood-requests/{id}",
			},
			"telegram": {
				"link":               "POST /api/telegram/link-telegram",
				"deepLink":           "GET /api/telegram/deep-link/{userId}",
				"testBroadcast":      "GET /api/telegram/test-broadcast",
				"notifyBloodRequest": "POST /api/telegram/notify-blood-request",
			},
		},
	}, handler.WithMessage("Welcome to BloodLink Blood Donor Platform API"))
}
