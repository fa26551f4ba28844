package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medmatch/medmatch/internal/platform/auth"
)

func TestStore_AddAndList(t *testing.T) {
	store := NewStore()

	if _, err := store.Add("City Dermatology", "Ada", 5, "great"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Add("City Dermatology", "Grace", 3, "okay"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reviews := store.List("City Dermatology")
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if reviews[0].UserName != "Grace" {
		t.Errorf("expected newest review first, got %s", reviews[0].UserName)
	}
	if len(store.List("Other Clinic")) != 0 {
		t.Error("expected reviews scoped per provider")
	}
}

func TestStore_InvalidRating(t *testing.T) {
	store := NewStore()
	for _, rating := range []int{0, -1, 6} {
		if _, err := store.Add("Clinic", "Ada", rating, ""); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestStore_AverageRating(t *testing.T) {
	store := NewStore()
	if got := store.AverageRating("Clinic"); got != 4.8 {
		t.Errorf("expected default rating 4.8, got %v", got)
	}
	store.Add("Clinic", "Ada", 5, "")
	store.Add("Clinic", "Grace", 3, "")
	if got := store.AverageRating("Clinic"); got != 4.0 {
		t.Errorf("expected average 4.0, got %v", got)
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add("Clinic", "Ada", 4, "")
		}()
	}
	wg.Wait()
	if got := len(store.List("Clinic")); got != 20 {
		t.Errorf("expected 20 reviews, got %d", got)
	}
}

func TestCreateHandler(t *testing.T) {
	h := NewHandler(NewStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/providers/City%20Dermatology/reviews",
		strings.NewReader(`{"rating":5,"comment":"quick and kind"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("provider")
	c.SetParamValues("City Dermatology")
	c.Set(auth.UserNameKey, "Ada")

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var review Review
	if err := json.Unmarshal(rec.Body.Bytes(), &review); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if review.UserName != "Ada" || review.Rating != 5 {
		t.Errorf("unexpected review: %+v", review)
	}
}

func TestCreateHandler_RequiresSession(t *testing.T) {
	h := NewHandler(NewStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/providers/Clinic/reviews",
		strings.NewReader(`{"rating":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("provider")
	c.SetParamValues("Clinic")

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestListHandler(t *testing.T) {
	store := NewStore()
	store.Add("Clinic", "Ada", 4, "solid")
	h := NewHandler(store)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/providers/Clinic/reviews", nil), rec)
	c.SetParamNames("provider")
	c.SetParamValues("Clinic")

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body struct {
		Reviews       []Review `json:"reviews"`
		AverageRating float64  `json:"averageRating"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Reviews) != 1 || body.AverageRating != 4.0 {
		t.Errorf("unexpected body: %+v", body)
	}
}
