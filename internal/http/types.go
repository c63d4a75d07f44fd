package http

import (
	"database/sql"
	"net/http"

	"github.com/mauv0809/matchday/internal/auth"
	"github.com/mauv0809/matchday/internal/config"
	"github.com/mauv0809/matchday/internal/location"
	"github.com/mauv0809/matchday/internal/notifier"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/room"
	"github.com/mauv0809/matchday/internal/scheduler"
)

type Server struct {
	DB             *sql.DB
	Players        player.Store
	Rooms          room.Controller
	Locations      *location.Directory
	Issuer         *auth.Issuer
	Notifier       notifier.Notifier
	Expirer        *scheduler.Expirer
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
