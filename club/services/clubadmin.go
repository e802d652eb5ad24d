package services

import (
	"log"
	"net/http"
	"os"

	"clubadmin/club/media"
	"clubadmin/club/storage"
	"clubadmin/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

type ClubAdmin struct {
	user    UserService
	sponsor SponsorService
	tryout  TryoutService
	group   GroupService
}

// NewClubAdmin wires the services together. The media and performance services
// are only reachable through the user routes, so they live behind UserService.
func NewClubAdmin(db *gorm.DB, store storage.ObjectStore, extractor media.FrameExtractor) ClubAdmin {
	mediaService := MediaService{db: db, store: store, extractor: extractor}
	performanceService := PerformanceService{db: db}

	return ClubAdmin{
		user: UserService{
			db:          db,
			store:       store,
			media:       &mediaService,
			performance: &performanceService,
		},
		sponsor: SponsorService{db: db, store: store},
		tryout:  TryoutService{db: db},
		group:   GroupService{db: db},
	}
}

func (c *ClubAdmin) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger: log.New(os.Stderr, "", log.LstdFlags), NoColor: false,
	}))

	r.Mount("/users", c.user.Routes())
	r.Mount("/sponsors", c.sponsor.Routes())
	r.Mount("/tryouts", c.tryout.Routes())
	r.Mount("/groups", c.group.Routes())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteSuccess(w)
	})

	return r
}
