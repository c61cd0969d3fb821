package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dat2/workout-tracking-app/internal/middleware"
	"github.com/dat2/workout-tracking-app/internal/session"
	"github.com/dat2/workout-tracking-app/internal/user"
	"github.com/dat2/workout-tracking-app/internal/workout"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type stubUsers struct {
	nextID  int
	byEmail map[string]user.User
	byName  map[string]string // username -> password
}

func newStubUsers() *stubUsers {
	return &stubUsers{
		byEmail: map[string]user.User{},
		byName:  map[string]string{},
	}
}

func (s *stubUsers) Register(_ context.Context, email, username, password string) (user.User, error) {
	if _, ok := s.byEmail[email]; ok {
		return user.User{}, user.ErrEmailTaken
	}
	s.nextID++
	u := user.User{ID: s.nextID, Email: email, Username: username}
	s.byEmail[email] = u
	s.byName[username] = password
	return u, nil
}

func (s *stubUsers) FindByCredentials(_ context.Context, username, password string) (user.User, error) {
	if stored, ok := s.byName[username]; !ok || stored != password {
		return user.User{}, user.ErrInvalidCredentials
	}
	for _, u := range s.byEmail {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrInvalidCredentials
}

func (s *stubUsers) FindByID(_ context.Context, id int) (user.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

type stubWorkouts struct {
	nextID  int
	created []workout.Workout
}

func (s *stubWorkouts) ListRoutines(context.Context) ([]workout.Routine, error) {
	return []workout.Routine{
		{ID: 1, Name: "push day", Exercises: []workout.Exercise{
			{ID: 1, Name: "bench press", Sets: 3, Reps: 8},
		}},
	}, nil
}

func (s *stubWorkouts) CreateWorkout(_ context.Context, userID, routineID int) (workout.Workout, error) {
	s.nextID++
	w := workout.Workout{ID: s.nextID, UserID: userID, RoutineID: routineID, CreatedAt: time.Now()}
	s.created = append(s.created, w)
	return w, nil
}

type fixture struct {
	router   *gin.Engine
	users    *stubUsers
	workouts *stubWorkouts
	redis    *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	manager := session.NewManager(session.NewRedisCache(client))
	codec := session.NewCookieCodec(testSecret)
	auth := middleware.NewAuthMiddleware(manager, codec)

	users := newStubUsers()
	workouts := &stubWorkouts{}

	router := gin.New()
	New(users, workouts, manager, codec, auth).RegisterRoutes(router)

	return &fixture{router: router, users: users, workouts: workouts, redis: mr}
}

func (f *fixture) register(t *testing.T, email, username, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	form := url.Values{}
	form.Set("email", email)
	form.Set("username", username)
	form.Set("password", password)

	r := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge > 0 {
			return rec, c
		}
	}
	return rec, nil
}

func (f *fixture) sessionKeys() []string {
	keys := []string{}
	for _, k := range f.redis.Keys() {
		if k != session.CounterKey {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestRegisterSetsSessionCookieAndRedirects(t *testing.T) {
	f := newFixture(t)

	rec, cookie := f.register(t, "a@example.com", "alice", "secret-pw")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.register(t, "a@example.com", "alice", "secret-pw")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec, _ = f.register(t, "a@example.com", "alice2", "secret-pw")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEndToEnd_RegisterThenStartWorkout(t *testing.T) {
	f := newFixture(t)

	rec, cookie := f.register(t, "a@example.com", "alice", "secret-pw")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, cookie)

	r := httptest.NewRequest(http.MethodPost, "/api/my/workouts", strings.NewReader(`{"routine_id":1}`))
	r.Header.Set("Content-Type", "application/json")
	r.AddCookie(cookie)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/workouts/1", rec.Header().Get("Location"))
	require.Len(t, f.workouts.created, 1)
	assert.Equal(t, 1, f.workouts.created[0].UserID)
	assert.Equal(t, 1, f.workouts.created[0].RoutineID)
}

func TestStartWorkoutWithoutCookie(t *testing.T) {
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/my/workouts", strings.NewReader(`{"routine_id":1}`))
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@example.com", "alice", "secret-pw")

	r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// The body must not reveal whether the user exists.
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
}

func TestLoginReusesLiveSession(t *testing.T) {
	f := newFixture(t)
	_, cookie := f.register(t, "a@example.com", "alice", "secret-pw")
	require.NotNil(t, cookie)
	require.Len(t, f.sessionKeys(), 1)

	r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"secret-pw"}`))
	r.Header.Set("Content-Type", "application/json")
	r.AddCookie(cookie)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	// No second record minted for an idempotent re-login.
	assert.Len(t, f.sessionKeys(), 1)
}

func TestLoginWithoutSessionCreatesOne(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@example.com", "alice", "secret-pw")

	r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"secret-pw"}`))
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"email":"a@example.com","username":"alice"}`, rec.Body.String())
	assert.Len(t, f.sessionKeys(), 2)
}

func TestLogoutClearsCookieThenUnauthenticated(t *testing.T) {
	f := newFixture(t)
	rec, cookie := f.register(t, "a@example.com", "alice", "secret-pw")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, cookie)

	r := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	r.AddCookie(cookie)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusNoContent, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
	assert.Empty(t, cleared.Value)

	// A client honoring the clear sends no cookie; that is plain
	// unauthenticated, never a backend error.
	r = httptest.NewRequest(http.MethodPost, "/api/my/workouts", strings.NewReader(`{"routine_id":1}`))
	r.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	rec, cookie := f.register(t, "a@example.com", "alice", "secret-pw")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, cookie)

	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r.AddCookie(cookie)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"email":"a@example.com","username":"alice"}`, rec.Body.String())
}

func TestMeWithoutCookie(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeUserGone(t *testing.T) {
	f := newFixture(t)
	rec, cookie := f.register(t, "a@example.com", "alice", "secret-pw")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, cookie)

	// The session outlives the user row; identity resolution must not.
	delete(f.users.byEmail, "a@example.com")

	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r.AddCookie(cookie)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
}

func TestListRoutines(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/routines", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":1,"name":"push day","exercises":[
			{"id":1,"name":"bench press","sets":3,"reps":8}
		]}
	]`, rec.Body.String())
}
