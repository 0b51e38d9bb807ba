package pets

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"pet-registry/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/schema"
)

// RegisterRoutes registra la tabla de rutas del recurso.
// La tabla es explícita (método + patrón + handler) y se chequea al
// arranque: un par (método, patrón) duplicado hace panic antes de servir.
func RegisterRoutes(r chi.Router, svc *Service, views *web.Renderer) {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true) // el form trae csrf_token, que no es campo del input

	table := []struct {
		method  string
		pattern string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/pets", listPetsHandler(svc, views)},
		{http.MethodGet, "/pets/create", newPetFormHandler(views)},
		{http.MethodPost, "/pets/create", createPetHandler(svc, views, dec)},
		{http.MethodGet, "/pets/{petID}", getPetHandler(svc, views)},
		{http.MethodGet, "/pets/{petID}/edit", editPetFormHandler(svc, views)},
		{http.MethodPost, "/pets/{petID}/edit", updatePetHandler(svc, views, dec)},
		{http.MethodGet, "/pets/{petID}/delete", deletePetFormHandler(svc, views)},
		{http.MethodPost, "/pets/{petID}/delete", deletePetHandler(svc, views)},
	}

	seen := make(map[string]struct{}, len(table))
	for _, rt := range table {
		key := rt.method + " " + rt.pattern
		if _, dup := seen[key]; dup {
			panic("pets: duplicate route " + key)
		}
		seen[key] = struct{}{}
		r.Method(rt.method, rt.pattern, rt.handler)
	}
}

// ---- view models ----

type petView struct {
	ID        int64
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate string // YYYY-MM-DD, vacío si no hay
	Microchip string
	Notes     string
}

type listPage struct {
	Pets []petView
}

type detailPage struct {
	Pet petView
}

type formPage struct {
	Title     string
	Action    string
	Form      PetForm
	Errors    []FieldError
	CSRFField template.HTML
}

type deletePage struct {
	Pet       petView
	CSRFField template.HTML
}

type errorPage struct {
	Status  int
	Message string
}

func toPetView(p Pet) petView {
	v := petView{
		ID:        p.ID,
		Name:      p.Name,
		Species:   string(p.Species),
		Breed:     p.Breed,
		Sex:       string(p.Sex),
		Microchip: p.Microchip,
		Notes:     p.Notes,
	}
	if p.BirthDate != nil {
		v.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return v
}

func toPetForm(p Pet) PetForm {
	f := PetForm{
		Name:      p.Name,
		Species:   string(p.Species),
		Breed:     p.Breed,
		Sex:       string(p.Sex),
		Microchip: p.Microchip,
		Notes:     p.Notes,
	}
	if p.BirthDate != nil {
		f.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return f
}

// ---- handlers ----

func listPetsHandler(svc *Service, views *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			renderServerError(views, w)
			return
		}

		out := make([]petView, 0, len(items))
		for _, p := range items {
			out = append(out, toPetView(p))
		}
		views.Render(w, http.StatusOK, "list.html", listPage{Pets: out})
	}
}

func getPetHandler(svc *Service, views *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(r)
		if !ok {
			renderNotFound(views, w)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		switch {
		case err == nil:
			views.Render(w, http.StatusOK, "detail.html", detailPage{Pet: toPetView(p)})
		case errors.Is(err, ErrNotFound):
			renderNotFound(views, w)
		default:
			renderServerError(views, w)
		}
	}
}

func newPetFormHandler(views *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, "form.html", formPage{
			Title:     "Register pet",
			Action:    "/pets/create",
			Form:      PetForm{Sex: string(SexUnknown)},
			CSRFField: csrf.TemplateField(r),
		})
	}
}

func createPetHandler(svc *Service, views *web.Renderer, dec *schema.Decoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := decodeForm(w, r, dec)
		if !ok {
			return
		}

		_, err := svc.Create(r.Context(), form)
		var verr *ValidationError
		switch {
		case err == nil:
			redirectToList(w, r)
		case errors.As(err, &verr):
			// re-render del formulario con lo enviado + errores
			views.Render(w, http.StatusUnprocessableEntity, "form.html", formPage{
				Title:     "Register pet",
				Action:    "/pets/create",
				Form:      form,
				Errors:    verr.Fields,
				CSRFField: csrf.TemplateField(r),
			})
		default:
			renderServerError(views, w)
		}
	}
}

func editPetFormHandler(svc *Service, views *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(r)
		if !ok {
			renderNotFound(views, w)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		switch {
		case err == nil:
			views.Render(w, http.StatusOK, "form.html", formPage{
				Title:     "Edit pet",
				Action:    "/pets/" + strconv.FormatInt(id, 10) + "/edit",
				Form:      toPetForm(p),
				CSRFField: csrf.TemplateField(r),
			})
		case errors.Is(err, ErrNotFound):
			renderNotFound(views, w)
		default:
			renderServerError(views, w)
		}
	}
}

func updatePetHandler(svc *Service, views *web.Renderer, dec *schema.Decoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(r)
		if !ok {
			renderNotFound(views, w)
			return
		}

		form, ok := decodeForm(w, r, dec)
		if !ok {
			return
		}

		_, err := svc.Update(r.Context(), id, form)
		var verr *ValidationError
		switch {
		case err == nil:
			redirectToList(w, r)
		case errors.As(err, &verr):
			views.Render(w, http.StatusUnprocessableEntity, "form.html", formPage{
				Title:     "Edit pet",
				Action:    "/pets/" + strconv.FormatInt(id, 10) + "/edit",
				Form:      form,
				Errors:    verr.Fields,
				CSRFField: csrf.TemplateField(r),
			})
		case errors.Is(err, ErrNotFound):
			renderNotFound(views, w)
		default:
			renderServerError(views, w)
		}
	}
}

func deletePetFormHandler(svc *Service, views *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(r)
		if !ok {
			renderNotFound(views, w)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		switch {
		case err == nil:
			views.Render(w, http.StatusOK, "delete.html", deletePage{
				Pet:       toPetView(p),
				CSRFField: csrf.TemplateField(r),
			})
		case errors.Is(err, ErrNotFound):
			renderNotFound(views, w)
		default:
			renderServerError(views, w)
		}
	}
}

func deletePetHandler(svc *Service, views *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(r)
		if !ok {
			renderNotFound(views, w)
			return
		}

		err := svc.Delete(r.Context(), id)
		switch {
		case err == nil:
			redirectToList(w, r)
		case errors.Is(err, ErrNotFound):
			renderNotFound(views, w)
		default:
			renderServerError(views, w)
		}
	}
}

// ---- helpers ----

func petID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeForm(w http.ResponseWriter, r *http.Request, dec *schema.Decoder) (PetForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return PetForm{}, false
	}
	var form PetForm
	if err := dec.Decode(&form, r.PostForm); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return PetForm{}, false
	}
	return form, true
}

func redirectToList(w http.ResponseWriter, r *http.Request) {
	// 303 para que el follow-up sea siempre un GET del listado
	http.Redirect(w, r, "/pets", http.StatusSeeOther)
}

func renderNotFound(views *web.Renderer, w http.ResponseWriter) {
	views.Render(w, http.StatusNotFound, "error.html", errorPage{
		Status:  http.StatusNotFound,
		Message: "pet not found",
	})
}

func renderServerError(views *web.Renderer, w http.ResponseWriter) {
	views.Render(w, http.StatusInternalServerError, "error.html", errorPage{
		Status:  http.StatusInternalServerError,
		Message: "internal error",
	})
}
