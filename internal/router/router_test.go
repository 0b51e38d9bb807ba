package router_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"pet-registry/internal/router"
)

var (
	csrfTokenRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)
	petLinkRe   = regexp.MustCompile(`href="/pets/(\d+)"`)
)

func TestHTTP_CreateListDetailFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()
	b := newBrowser(t, ts.URL)

	// 1) Listado vacío
	{
		st, body := b.get("/pets")
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d", st)
		}
		if !strings.Contains(body, "No pets registered yet.") {
			t.Fatalf("expected empty listing, body=%s", body)
		}
	}

	// 2) Form de alta trae token anti-forgery
	token := b.csrfToken("/pets/create")

	// 3) Create válido => 303 al listado
	{
		st, _, loc := b.postForm("/pets/create", token, url.Values{
			"name":    {"Milo"},
			"species": {"dog"},
			"breed":   {"mixed"},
			"sex":     {"male"},
			"notes":   {"test"},
		})
		if st != http.StatusSeeOther {
			t.Fatalf("expected 303 create, got %d", st)
		}
		if loc != "/pets" {
			t.Fatalf("expected redirect to /pets, got %q", loc)
		}
	}

	// 4) Listado muestra la mascota
	petID := ""
	{
		st, body := b.get("/pets")
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d", st)
		}
		if !strings.Contains(body, "Milo") {
			t.Fatalf("expected Milo in listing, body=%s", body)
		}
		m := petLinkRe.FindStringSubmatch(body)
		if m == nil {
			t.Fatalf("expected pet link in listing, body=%s", body)
		}
		petID = m[1]
	}

	// 5) Detail renderiza sin side effects
	{
		st, body := b.get("/pets/" + petID)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detail, got %d", st)
		}
		if !strings.Contains(body, "Milo") || !strings.Contains(body, "dog") {
			t.Fatalf("expected detail with Milo/dog, body=%s", body)
		}
	}
}

func TestHTTP_CreateValidationRerendersForm(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()
	b := newBrowser(t, ts.URL)

	token := b.csrfToken("/pets/create")

	// name y species vacíos => 422 con el form de vuelta, no redirect
	st, body, _ := b.postForm("/pets/create", token, url.Values{
		"name":    {""},
		"species": {""},
		"notes":   {"sin nombre"},
	})
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on invalid create, got %d body=%s", st, body)
	}
	if !strings.Contains(body, "name is required") || !strings.Contains(body, "species is required") {
		t.Fatalf("expected field errors in body=%s", body)
	}
	if !strings.Contains(body, "<form") {
		t.Fatalf("expected re-rendered form, body=%s", body)
	}

	// sin side effects: el listado sigue vacío
	_, listBody := b.get("/pets")
	if !strings.Contains(listBody, "No pets registered yet.") {
		t.Fatalf("expected no pet created, body=%s", listBody)
	}
}

func TestHTTP_UpdateFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()
	b := newBrowser(t, ts.URL)

	petID := createPet(t, b, "Milo", "dog")

	// El form de edición viene pre-cargado
	editPath := "/pets/" + petID + "/edit"
	{
		st, body := b.get(editPath)
		if st != http.StatusOK {
			t.Fatalf("expected 200 edit form, got %d", st)
		}
		if !strings.Contains(body, `value="Milo"`) {
			t.Fatalf("expected prefilled name, body=%s", body)
		}
	}

	// Update válido => 303 al listado
	token := b.csrfToken(editPath)
	{
		st, _, loc := b.postForm(editPath, token, url.Values{
			"name":    {"Milo Updated"},
			"species": {"dog"},
			"sex":     {"male"},
		})
		if st != http.StatusSeeOther {
			t.Fatalf("expected 303 update, got %d", st)
		}
		if loc != "/pets" {
			t.Fatalf("expected redirect to /pets, got %q", loc)
		}
	}

	{
		st, body := b.get("/pets/" + petID)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detail, got %d", st)
		}
		if !strings.Contains(body, "Milo Updated") {
			t.Fatalf("expected updated name, body=%s", body)
		}
	}

	// Update de id inexistente => página 404
	{
		st, _, _ := b.postForm("/pets/9999/edit", b.csrfToken("/pets/create"), url.Values{
			"name":    {"Ghost"},
			"species": {"cat"},
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 updating missing pet, got %d", st)
		}
	}
}

func TestHTTP_DeleteFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()
	b := newBrowser(t, ts.URL)

	petID := createPet(t, b, "Luna", "cat")
	deletePath := "/pets/" + petID + "/delete"

	// Confirmación GET sin side effects
	{
		st, body := b.get(deletePath)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete confirm, got %d", st)
		}
		if !strings.Contains(body, "Luna") {
			t.Fatalf("expected pet name in confirm, body=%s", body)
		}
	}
	{
		st, _ := b.get("/pets/" + petID)
		if st != http.StatusOK {
			t.Fatalf("expected pet still present after GET confirm, got %d", st)
		}
	}

	// POST => 303 y la mascota desaparece
	token := b.csrfToken(deletePath)
	{
		st, _, loc := b.postForm(deletePath, token, nil)
		if st != http.StatusSeeOther {
			t.Fatalf("expected 303 delete, got %d", st)
		}
		if loc != "/pets" {
			t.Fatalf("expected redirect to /pets, got %q", loc)
		}
	}
	{
		st, _ := b.get("/pets/" + petID)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}

	// Segundo delete del mismo id => 404
	{
		st, _, _ := b.postForm(deletePath, b.csrfToken("/pets/create"), nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 deleting twice, got %d", st)
		}
	}
}

func TestHTTP_PostWithoutTokenRejected(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()
	b := newBrowser(t, ts.URL)

	// Sin token => 403 antes de llegar al handler (nada se crea)
	st, _, _ := b.postForm("/pets/create", "", url.Values{
		"name":    {"Milo"},
		"species": {"dog"},
	})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", st)
	}

	_, body := b.get("/pets")
	if !strings.Contains(body, "No pets registered yet.") {
		t.Fatalf("expected no pet created, body=%s", body)
	}
}

func TestHTTP_NotFoundAndHealth(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()
	b := newBrowser(t, ts.URL)

	if st, _ := b.get("/pets/9999"); st != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", st)
	}
	if st, _ := b.get("/pets/abc"); st != http.StatusNotFound {
		t.Fatalf("expected 404 for non-numeric id, got %d", st)
	}
	if st, body := b.get("/health"); st != http.StatusOK || body != "ok" {
		t.Fatalf("expected 200 ok health, got %d %q", st, body)
	}
}

// -------------------------
// helpers
// -------------------------

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

// newBrowser arma un cliente con cookie jar (para la cookie anti-forgery)
// y sin follow de redirects, para poder asertar el 303.
func newBrowser(t *testing.T, base string) *browser {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &browser{
		t:    t,
		base: base,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()

	res, err := b.client.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	defer res.Body.Close()

	return res.StatusCode, readBody(b.t, res)
}

// postForm envía un POST urlencoded. token vacío = no manda csrf_token.
// Devuelve status, body y el header Location.
func (b *browser) postForm(path, token string, form url.Values) (int, string, string) {
	b.t.Helper()

	if form == nil {
		form = url.Values{}
	}
	if token != "" {
		form.Set("csrf_token", token)
	}

	res, err := b.client.Post(b.base+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	defer res.Body.Close()

	return res.StatusCode, readBody(b.t, res), res.Header.Get("Location")
}

// csrfToken hace GET del form y extrae el hidden field csrf_token.
func (b *browser) csrfToken(formPath string) string {
	b.t.Helper()

	st, body := b.get(formPath)
	if st != http.StatusOK {
		b.t.Fatalf("expected 200 fetching form %s, got %d", formPath, st)
	}
	m := csrfTokenRe.FindStringSubmatch(body)
	if m == nil {
		b.t.Fatalf("csrf token not found in %s body=%s", formPath, body)
	}
	return m[1]
}

func createPet(t *testing.T, b *browser, name, species string) string {
	t.Helper()

	token := b.csrfToken("/pets/create")
	st, body, _ := b.postForm("/pets/create", token, url.Values{
		"name":    {name},
		"species": {species},
	})
	if st != http.StatusSeeOther {
		t.Fatalf("expected 303 create pet, got %d body=%s", st, body)
	}

	_, listBody := b.get("/pets")
	matches := petLinkRe.FindAllStringSubmatch(listBody, -1)
	if len(matches) == 0 {
		t.Fatalf("create pet: no id in listing body=%s", listBody)
	}
	return matches[len(matches)-1][1]
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}
