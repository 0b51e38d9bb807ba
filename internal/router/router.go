package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "pet-registry/internal/adapters/storage/memory"
	pg "pet-registry/internal/adapters/storage/postgres"
	"pet-registry/internal/domain/pets"
	"pet-registry/internal/middleware"
	"pet-registry/internal/platform/logger"
	"pet-registry/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
)

type Options struct {
	Logger logger.Logger // puede ser nil (tests)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// CSRFKey debe tener 32 bytes. Si viene vacío usa CSRF_KEY del env,
	// y como último fallback una clave fija solo-dev.
	CSRFKey []byte

	// SecureCookies marca la cookie anti-forgery como Secure (prod/https).
	SecureCookies bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.RequestLog(opts.Logger))

	// Anti-forgery en todos los POST: token en hidden field csrf_token.
	// Un token ausente/incorrecto corta con 403 antes de llegar al handler.
	r.Use(csrf.Protect(csrfKey(opts.CSRFKey),
		csrf.FieldName("csrf_token"),
		csrf.Path("/"),
		csrf.Secure(opts.SecureCookies),
	))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	var petRepo pets.Repository
	if db != nil {
		petRepo = pg.NewPetsRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
	}

	petsSvc := pets.NewService(petRepo)
	views := web.NewRenderer()

	pets.RegisterRoutes(r, petsSvc, views)

	// raíz => listado
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pets", http.StatusSeeOther)
	})

	return r
}

func csrfKey(k []byte) []byte {
	if len(k) == 32 {
		return k
	}
	if v := os.Getenv("CSRF_KEY"); len(v) >= 32 {
		return []byte(v)[:32]
	}
	// clave fija solo para dev; en prod setear CSRF_KEY
	return []byte("dev-only-csrf-key-0123456789abcd")
}
