package user

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"user-console/internal/domain"
)

func TestDigitsOnly(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"abc123456789", PhoneMaxLen, "123456789"},
		{"(555) 010-9999 ext 12", PhoneMaxLen, "5550109999"},
		{"12-34-56-78", ZipcodeMaxLen, "123456"},
		{"١٢٣", ZipcodeMaxLen, ""},
		{"", PhoneMaxLen, ""},
	}
	for _, tt := range tests {
		if got := DigitsOnly(tt.in, tt.max); got != tt.want {
			t.Errorf("DigitsOnly(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func validForm() *Form {
	return &Form{
		Mode:    ModeCreate,
		Name:    "Leanne Graham",
		Email:   "leanne@april.com",
		Phone:   "1770736803",
		Company: "Romaguera-Crona",
		City:    "Gwenborough",
		Zipcode: "929983",
	}
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	f := validForm()
	if errs := NewValidator(nil).Validate(f); errs != nil {
		t.Fatalf("unexpected errors %v", errs)
	}
	if f.Invalid() {
		t.Fatal("form marked invalid")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	f := &Form{Mode: ModeCreate}
	errs := NewValidator(nil).Validate(f)
	for _, field := range []string{"name", "email", "phone", "company", "city", "zipcode"} {
		if errs[field] == "" {
			t.Errorf("missing error for %s in %v", field, errs)
		}
	}
	if errs["name"] != "Name is required" || errs["email"] != "Email is required" {
		t.Fatalf("unexpected messages %v", errs)
	}
}

func TestValidateEmailRules(t *testing.T) {
	v := NewValidator([]string{".com", ".io"})
	cases := map[string]string{
		"not-an-email":      "Enter a valid email address",
		"ervin@melissa.tv":  "Email must end with .com or .io",
		"ervin@melissa.io":  "",
		"ERVIN@MELISSA.COM": "",
	}
	for email, want := range cases {
		f := validForm()
		f.Email = email
		errs := v.Validate(f)
		if got := errs["email"]; got != want {
			t.Errorf("email %q: got %q, want %q", email, got, want)
		}
	}
}

func TestValidateSanitizesDigitFields(t *testing.T) {
	f := validForm()
	f.Phone = "abc123456789"
	f.Zipcode = "92-99-83-11"
	if errs := NewValidator(nil).Validate(f); errs != nil {
		t.Fatalf("unexpected errors %v", errs)
	}
	if f.Phone != "123456789" || f.Zipcode != "929983" {
		t.Fatalf("phone=%q zipcode=%q", f.Phone, f.Zipcode)
	}

	f = validForm()
	f.Phone = "no digits"
	errs := NewValidator(nil).Validate(f)
	if errs["phone"] != "Phone is required" {
		t.Fatalf("phone error = %q", errs["phone"])
	}
}

func TestEditFormPrefillAndPayload(t *testing.T) {
	u := domain.User{
		ID:      "u1",
		Name:    "Clementine Bauch",
		Email:   "nathan@yesenia.com",
		Phone:   "4631234447",
		Company: "Keebler LLC",
		Address: []domain.Address{{City: "McKenziehaven", Zipcode: "590174"}, {City: "ignored"}},
	}
	f := NewEditForm(u)
	if f.Mode != ModeEdit || f.ID != "u1" || f.Title() != "Update User" || f.Action() != "/users/u1" {
		t.Fatalf("unexpected edit form %+v", f)
	}
	if f.Name != u.Name || f.Email != u.Email || f.Phone != u.Phone || f.Company != u.Company ||
		f.City != "McKenziehaven" || f.Zipcode != "590174" {
		t.Fatalf("prefill mismatch %+v", f)
	}

	p := f.Payload()
	if p.ID != "" {
		t.Fatalf("payload carries id %q", p.ID)
	}
	if len(p.Address) != 1 || p.Address[0].Geo == nil || len(p.Address[0].Geo) != 0 {
		t.Fatalf("payload address %+v", p.Address)
	}

	c := NewCreateForm()
	if c.Name != "" || c.Email != "" || c.City != "" || c.Title() != "Create User" || c.Action() != "/users" {
		t.Fatalf("create form not empty: %+v", c)
	}
}

func TestSubmitGuard(t *testing.T) {
	g := NewSubmitGuard()
	release, ok := g.Begin("tok")
	if !ok {
		t.Fatal("first submission rejected")
	}
	if _, ok := g.Begin("tok"); ok {
		t.Fatal("duplicate in-flight submission accepted")
	}
	if _, ok := g.Begin("other"); !ok {
		t.Fatal("independent token rejected")
	}
	release()
	if _, ok := g.Begin("tok"); !ok {
		t.Fatal("token still blocked after release")
	}
	if _, ok := g.Begin(""); ok {
		t.Fatal("empty token accepted")
	}
}

func TestSubmitGuardConcurrent(t *testing.T) {
	g := NewSubmitGuard()
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := g.Begin("same"); ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if accepted != 1 {
		t.Fatalf("accepted = %d, want 1", accepted)
	}
}

func TestResolveDetail(t *testing.T) {
	u := &domain.User{ID: "u1", Name: "Leanne", Address: []domain.Address{{City: "Gwenborough"}}}
	tests := []struct {
		name    string
		user    *domain.User
		err     error
		pending bool
		state   DetailState
		status  int
	}{
		{"ready", u, nil, false, DetailReady, http.StatusOK},
		{"pending", nil, nil, true, DetailLoading, http.StatusAccepted},
		{"not found error", nil, domain.ErrUserNotFound, false, DetailNotFound, http.StatusNotFound},
		{"nil user", nil, nil, false, DetailNotFound, http.StatusNotFound},
		{"no id", &domain.User{Name: "ghost"}, nil, false, DetailNotFound, http.StatusNotFound},
		{"backend error", nil, errors.New("502"), false, DetailError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ResolveDetail(tt.user, tt.err, tt.pending)
			if v.State != tt.state || v.Status() != tt.status {
				t.Fatalf("got %s/%d, want %s/%d", v.State, v.Status(), tt.state, tt.status)
			}
		})
	}
	if v := ResolveDetail(u, nil, false); v.Address.City != "Gwenborough" {
		t.Fatalf("address not resolved: %+v", v)
	}
}

func TestListView(t *testing.T) {
	v := NewListView(nil, errors.New("dial tcp"))
	if v.Error != MsgLoadUsersFailed || len(v.Users) != 0 {
		t.Fatalf("unexpected view %+v", v)
	}
	v = NewListView([]domain.User{{ID: "a"}, {ID: "b"}}, nil)
	if u, ok := v.Find("b"); !ok || u.ID != "b" {
		t.Fatalf("find b = %+v %v", u, ok)
	}
	if _, ok := v.Find("z"); ok {
		t.Fatal("found unknown id")
	}
}
