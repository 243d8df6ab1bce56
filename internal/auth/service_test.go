package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clubauth/internal/auth"
	"github.com/dropDatabas3/clubauth/internal/security/credential"
	"github.com/dropDatabas3/clubauth/internal/security/password"
	"github.com/dropDatabas3/clubauth/internal/token"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

const (
	testUser = "admin"
	testPass = "correct-pw"
)

func testConfig() auth.Config {
	return auth.Config{
		Username:      testUser,
		PasswordHash:  credential.SHA256Hex(testPass),
		SigningSecret: "test-secret",
		TokenTTL:      time.Hour,
	}
}

func TestLoginValidate_RoundTrip(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := auth.NewService(testConfig(), clk)
	ctx := context.Background()

	sess, err := svc.Login(ctx, testUser, testPass)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	// expiresAt dentro de [iat+300s, iat+ttl]
	expSec := sess.ExpiresAt / 1000
	require.GreaterOrEqual(t, expSec, clk.t.Unix()+300)
	require.LessOrEqual(t, expSec, clk.t.Unix()+3600)

	res, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, sess.ExpiresAt, res.ExpiresAt)
}

func TestLogin_UsernameCaseInsensitive(t *testing.T) {
	// username configurado "admin", suministrado "Admin": debe pasar
	svc := auth.NewService(testConfig(), &fakeClock{t: time.Unix(1_700_000_000, 0)})

	sess, err := svc.Login(context.Background(), "Admin", testPass)
	require.NoError(t, err)
	require.NotNil(t, sess)

	sess, err = svc.Login(context.Background(), "  ADMIN  ", testPass)
	require.NoError(t, err)
	require.NotNil(t, sess)
}

func TestLogin_MismatchIndistinguishable(t *testing.T) {
	svc := auth.NewService(testConfig(), &fakeClock{t: time.Unix(1_700_000_000, 0)})
	ctx := context.Background()

	cases := []struct {
		name     string
		user, pw string
	}{
		{"wrong user, right pass", "intruder", testPass},
		{"right user, wrong pass", testUser, "wrong-pw"},
		{"wrong both", "intruder", "wrong-pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.user, tc.pw)
			// mismo error, mismo mensaje, en los tres casos
			require.ErrorIs(t, err, auth.ErrInvalidCredentials)
			require.EqualError(t, err, "invalid credentials")
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := auth.NewService(testConfig(), nil)
	ctx := context.Background()

	for _, tc := range [][2]string{{"", testPass}, {testUser, ""}, {"   ", testPass}, {"", ""}} {
		_, err := svc.Login(ctx, tc[0], tc[1])
		require.ErrorIs(t, err, auth.ErrMissingFields)
	}
}

func TestLogin_TTLFloor(t *testing.T) {
	cfg := testConfig()
	cfg.TokenTTL = 60 * time.Second
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := auth.NewService(cfg, clk)

	sess, err := svc.Login(context.Background(), testUser, testPass)
	require.NoError(t, err)
	require.Equal(t, (clk.t.Unix()+300)*1000, sess.ExpiresAt)
}

func TestConfigurationGate(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	valid := auth.NewService(testConfig(), clk)
	sess, err := valid.Login(context.Background(), testUser, testPass)
	require.NoError(t, err)

	mutations := map[string]func(*auth.Config){
		"no secret":        func(c *auth.Config) { c.SigningSecret = "" },
		"no username":      func(c *auth.Config) { c.Username = "" },
		"no password hash": func(c *auth.Config) { c.PasswordHash = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			svc := auth.NewService(cfg, clk)

			// login rechaza con error de config aunque las credenciales sean válidas
			_, err := svc.Login(context.Background(), testUser, testPass)
			require.ErrorIs(t, err, auth.ErrNotConfigured)

			// validate también, incluso con un token legítimo
			_, err = svc.Validate(context.Background(), sess.Token)
			require.ErrorIs(t, err, auth.ErrNotConfigured)
		})
	}
}

func TestValidate_StaleSubjectAfterRotation(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	oldCfg := testConfig()
	oldCfg.Username = "olduser"
	oldSvc := auth.NewService(oldCfg, clk)

	sess, err := oldSvc.Login(context.Background(), "olduser", testPass)
	require.NoError(t, err)

	// rotamos el admin configurado: el token viejo firma bien y no expiró,
	// pero el subject ya no corresponde
	newCfg := testConfig()
	newCfg.Username = "newuser"
	newSvc := auth.NewService(newCfg, clk)

	res, err := newSvc.Validate(context.Background(), sess.Token)
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.Equal(t, auth.ReasonInvalidSubject, res.Reason)
}

func TestValidate_NeverErrorsOnBadTokens(t *testing.T) {
	svc := auth.NewService(testConfig(), &fakeClock{t: time.Unix(1_700_000_000, 0)})
	ctx := context.Background()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		res, err := svc.Validate(ctx, tok)
		require.NoError(t, err)
		require.False(t, res.Valid)
		require.NotEmpty(t, res.Reason)
	}
}

func TestValidate_Expired(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	clk := &fakeClock{t: issued}
	svc := auth.NewService(testConfig(), clk)

	sess, err := svc.Login(context.Background(), testUser, testPass)
	require.NoError(t, err)

	// avanzamos el reloj más allá del exp
	clk.t = issued.Add(2 * time.Hour)
	res, err := svc.Validate(context.Background(), sess.Token)
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.Equal(t, string(token.ReasonExpired), res.Reason)
}

func TestLogin_Argon2idReference(t *testing.T) {
	phc, err := password.Hash(password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}, testPass)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.PasswordHash = phc
	svc := auth.NewService(cfg, &fakeClock{t: time.Unix(1_700_000_000, 0)})

	_, err = svc.Login(context.Background(), testUser, testPass)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), testUser, "wrong-pw")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
