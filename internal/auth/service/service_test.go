package service

import (
	"context"
	"testing"
	"time"

	"groenportaal_backend/internal/auth/transport"
	"groenportaal_backend/platform/apperr"
	"groenportaal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeRepo struct {
	bedrijven map[uuid.UUID]transport.Bedrijf
	users     map[string]transport.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bedrijven: make(map[uuid.UUID]transport.Bedrijf),
		users:     make(map[string]transport.User),
	}
}

func (f *fakeRepo) CreateBedrijfMetEigenaar(_ context.Context, bedrijf transport.Bedrijf, user transport.User) (transport.Bedrijf, transport.User, error) {
	if _, bestaat := f.users[user.Email]; bestaat {
		return transport.Bedrijf{}, transport.User{}, apperr.Conflict("e-mailadres is al in gebruik")
	}
	bedrijf.ID = uuid.New()
	bedrijf.CreatedAt = time.Now()
	user.ID = uuid.New()
	user.BedrijfID = bedrijf.ID
	user.CreatedAt = time.Now()
	f.bedrijven[bedrijf.ID] = bedrijf
	f.users[user.Email] = user
	return bedrijf, user, nil
}

func (f *fakeRepo) UserByEmail(_ context.Context, email string) (transport.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return transport.User{}, apperr.NotFound("account niet gevonden")
}

func (f *fakeRepo) UserByID(_ context.Context, id uuid.UUID) (transport.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return transport.User{}, apperr.NotFound("account niet gevonden")
}

func (f *fakeRepo) BedrijfByID(_ context.Context, id uuid.UUID) (transport.Bedrijf, error) {
	if b, ok := f.bedrijven[id]; ok {
		return b, nil
	}
	return transport.Bedrijf{}, apperr.NotFound("bedrijf niet gevonden")
}

func (f *fakeRepo) UpdateBedrijf(_ context.Context, id uuid.UUID, b transport.Bedrijf) (transport.Bedrijf, error) {
	if _, ok := f.bedrijven[id]; !ok {
		return transport.Bedrijf{}, apperr.NotFound("bedrijf niet gevonden")
	}
	b.ID = id
	f.bedrijven[id] = b
	return b, nil
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string        { return "test-access-secret" }
func (testConfig) GetJWTRefreshSecret() string       { return "test-refresh-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 720 * time.Hour }

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return New(repo, testConfig{}, logger.New("test")), repo
}

func registreer(t *testing.T, svc *Service) transport.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), transport.RegisterRequest{
		BedrijfNaam: "Hoveniersbedrijf De Eik",
		Naam:        "Jan Jansen",
		Email:       "jan@de-eik.nl",
		Wachtwoord:  "een-lang-wachtwoord",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return resp
}

func TestRegisterEnLogin(t *testing.T) {
	svc, _ := newTestService()
	reg := registreer(t, svc)

	if len(reg.User.Roles) != 1 || reg.User.Roles[0] != transport.RolEigenaar {
		t.Errorf("first account should be eigenaar, got %v", reg.User.Roles)
	}
	if reg.User.BedrijfID != reg.Bedrijf.ID {
		t.Error("user should belong to the created bedrijf")
	}
	if reg.User.PasswordHash == "een-lang-wachtwoord" {
		t.Error("password must not be stored in plaintext")
	}

	login, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:      "Jan@De-Eik.nl", // case-insensitive
		Wachtwoord: "een-lang-wachtwoord",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.Tokens.AccessToken == "" || login.Tokens.RefreshToken == "" {
		t.Error("login should issue both tokens")
	}
}

func TestLoginFoutWachtwoord(t *testing.T) {
	svc, _ := newTestService()
	registreer(t, svc)

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:      "jan@de-eik.nl",
		Wachtwoord: "verkeerd",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}

	// Onbekend account geeft dezelfde fout als een fout wachtwoord.
	_, err2 := svc.Login(context.Background(), transport.LoginRequest{
		Email:      "niemand@voorbeeld.nl",
		Wachtwoord: "verkeerd",
	})
	if apperr.GetKind(err2) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized for unknown account, got %v", err2)
	}
}

func TestAccessTokenClaims(t *testing.T) {
	svc, _ := newTestService()
	reg := registreer(t, svc)

	parsed, err := jwt.Parse(reg.Tokens.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-access-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token should parse: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["type"] != "access" {
		t.Errorf("expected access type, got %v", claims["type"])
	}
	if claims["sub"] != reg.User.ID.String() {
		t.Errorf("expected sub %s, got %v", reg.User.ID, claims["sub"])
	}
	if claims["tenant_id"] != reg.Bedrijf.ID.String() {
		t.Errorf("expected tenant_id %s, got %v", reg.Bedrijf.ID, claims["tenant_id"])
	}
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestService()
	reg := registreer(t, svc)

	resp, err := svc.Refresh(context.Background(), transport.RefreshRequest{
		RefreshToken: reg.Tokens.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if resp.User.ID != reg.User.ID {
		t.Error("refresh should resolve to the same account")
	}

	// Een access token is geen geldig refresh token.
	_, err = svc.Refresh(context.Background(), transport.RefreshRequest{
		RefreshToken: reg.Tokens.AccessToken,
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("access token should be rejected as refresh token, got %v", err)
	}
}

func TestUpdateBedrijf(t *testing.T) {
	svc, _ := newTestService()
	reg := registreer(t, svc)

	bedrijf, err := svc.UpdateBedrijf(context.Background(), reg.Bedrijf.ID, transport.UpdateBedrijfRequest{
		Naam:      "Hoveniersbedrijf De Eik BV",
		KvkNummer: "12345678",
		IBAN:      "nl91 abna 0417 1643 00",
		Adres:     "Lindelaan 12, Ede",
	})
	if err != nil {
		t.Fatalf("update bedrijf failed: %v", err)
	}
	if bedrijf.Naam != "Hoveniersbedrijf De Eik BV" {
		t.Errorf("unexpected naam %q", bedrijf.Naam)
	}
	// IBAN wordt genormaliseerd opgeslagen voor de betaal-QR.
	if bedrijf.IBAN != "NL91ABNA0417164300" {
		t.Errorf("expected normalized IBAN, got %q", bedrijf.IBAN)
	}
}
