package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"

	"luemtv/internal/models"
	"luemtv/internal/repositories"
	"luemtv/internal/tmdb"
)

// ===============================
// In-memory stores
// ===============================

type memSeriesStore struct {
	mu       sync.Mutex
	series   map[string]models.Series
	episodes map[string]models.Episode
	listErr  error
	epErr    error
	writes   int
}

func newMemSeriesStore() *memSeriesStore {
	return &memSeriesStore{
		series:   map[string]models.Series{},
		episodes: map[string]models.Episode{},
	}
}

func (m *memSeriesStore) addSeries(title string, episodes ...models.Episode) models.Series {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := models.Series{ID: uuid.NewString(), Title: title, Category: models.CategorySeries}
	m.series[s.ID] = s
	for _, ep := range episodes {
		ep.ID = uuid.NewString()
		ep.SeriesID = s.ID
		m.episodes[ep.ID] = ep
	}
	return s
}

func (m *memSeriesStore) ListSeries(_ context.Context, q string) ([]models.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.Series{}
	for _, s := range m.series {
		if q == "" || strings.Contains(strings.ToLower(s.Title), strings.ToLower(q)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSeriesStore) GetSeries(_ context.Context, id string) (*models.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (m *memSeriesStore) CreateSeriesWithEpisodes(_ context.Context, s *models.Series, episodes []models.Episode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	s.ID = uuid.NewString()
	m.series[s.ID] = *s
	for _, ep := range episodes {
		ep.ID = uuid.NewString()
		ep.SeriesID = s.ID
		m.episodes[ep.ID] = ep
	}
	return nil
}

func (m *memSeriesStore) UpdateSeries(_ context.Context, s *models.Series) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.series[s.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.writes++
	m.series[s.ID] = *s
	return nil
}

func (m *memSeriesStore) ReplaceSeriesEpisodes(_ context.Context, s *models.Series, episodes []models.Episode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.series[s.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.writes++
	m.series[s.ID] = *s
	for id, ep := range m.episodes {
		if ep.SeriesID == s.ID {
			delete(m.episodes, id)
		}
	}
	for _, ep := range episodes {
		ep.ID = uuid.NewString()
		ep.SeriesID = s.ID
		m.episodes[ep.ID] = ep
	}
	return nil
}

func (m *memSeriesStore) DeleteSeries(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.series[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.series, id)
	for epID, ep := range m.episodes {
		if ep.SeriesID == id {
			delete(m.episodes, epID)
		}
	}
	return nil
}

func (m *memSeriesStore) GetEpisode(_ context.Context, id string) (*models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ep, ok := m.episodes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &ep, nil
}

func (m *memSeriesStore) ListEpisodes(_ context.Context, seriesID string) ([]models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epErr != nil {
		return nil, m.epErr
	}
	out := []models.Episode{}
	for _, ep := range m.episodes {
		if ep.SeriesID == seriesID {
			out = append(out, ep)
		}
	}
	models.SortEpisodes(out)
	return out, nil
}

func (m *memSeriesStore) SetEpisodeVideoURL(_ context.Context, id, videoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ep, ok := m.episodes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	ep.VideoURL = videoURL
	m.episodes[id] = ep
	return nil
}

func (m *memSeriesStore) DeleteEpisode(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.episodes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.episodes, id)
	return nil
}

type memVideoStore struct {
	mu        sync.Mutex
	videos    map[string]models.Video
	listErr   map[string]error
	createErr error
	writes    int
}

func newMemVideoStore() *memVideoStore {
	return &memVideoStore{videos: map[string]models.Video{}, listErr: map[string]error{}}
}

func (m *memVideoStore) add(title, category, videoURL string) models.Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := models.Video{ID: uuid.NewString(), Title: title, Category: category, VideoURL: videoURL}
	m.videos[v.ID] = v
	return v
}

func (m *memVideoStore) ListVideos(_ context.Context, category, q string) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.listErr[category]; err != nil {
		return nil, err
	}
	out := []models.Video{}
	for _, v := range m.videos {
		if v.Category != category {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(v.Title), strings.ToLower(q)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVideoStore) GetVideo(_ context.Context, id string) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (m *memVideoStore) CreateVideo(_ context.Context, v *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.writes++
	v.ID = uuid.NewString()
	m.videos[v.ID] = *v
	return nil
}

func (m *memVideoStore) UpdateVideo(_ context.Context, v *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[v.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.writes++
	m.videos[v.ID] = *v
	return nil
}

func (m *memVideoStore) DeleteVideo(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.videos, id)
	return nil
}

type memProfileStore struct {
	mu        sync.Mutex
	profiles  map[string]models.Profile
	createErr error
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: map[string]models.Profile{}}
}

func (m *memProfileStore) ListProfiles(_ context.Context, q string) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Profile{}
	for _, p := range m.profiles {
		if q == "" || strings.Contains(p.Email, strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProfileStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (m *memProfileStore) CreateProfile(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.profiles[p.ID]; ok {
		return repositories.ErrDuplicate
	}
	m.profiles[p.ID] = *p
	return nil
}

func (m *memProfileStore) UpdateProfile(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.profiles[p.ID] = *p
	return nil
}

func (m *memProfileStore) DeleteProfile(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}

// ===============================
// Upstreams
// ===============================

type fakeAuth struct {
	mu        sync.Mutex
	users     map[string]string // uid -> email
	deleted   []string
	signedOut []string
	signUpErr error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]string{}}
}

func (f *fakeAuth) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[idToken]; !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &auth.Token{UID: idToken}, nil
}

func (f *fakeAuth) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.users[uid]
	if !ok {
		return nil, fmt.Errorf("no user %s", uid)
	}
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid, Email: email}}, nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	uid := "uid-" + email
	f.users[uid] = email
	return uid, nil
}

func (f *fakeAuth) SignOut(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, uid)
	return nil
}

func (f *fakeAuth) DeleteUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

// fakeMetadata serves canned TMDB data. Seasons are keyed by number.
type fakeMetadata struct {
	mu         sync.Mutex
	movies     []tmdb.MovieResult
	shows      []tmdb.TVResult
	totalPages int
	movie      map[int]tmdb.MovieDetails
	tv         map[int]tmdb.TVDetails
	seasons    map[int]tmdb.SeasonDetails
	searchErr  error
	detailErr  error
	seasonErr  error
	upcoming   error
	onTheAir   error
	seasonHits []int
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		totalPages: 1,
		movie:      map[int]tmdb.MovieDetails{},
		tv:         map[int]tmdb.TVDetails{},
		seasons:    map[int]tmdb.SeasonDetails{},
	}
}

func (f *fakeMetadata) SearchMovies(_ context.Context, _ string, page int) (*tmdb.Page[tmdb.MovieResult], error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &tmdb.Page[tmdb.MovieResult]{Page: page, Results: f.movies, TotalPages: f.totalPages}, nil
}

func (f *fakeMetadata) SearchTV(_ context.Context, _ string, page int) (*tmdb.Page[tmdb.TVResult], error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &tmdb.Page[tmdb.TVResult]{Page: page, Results: f.shows, TotalPages: f.totalPages}, nil
}

func (f *fakeMetadata) GetMovie(_ context.Context, id int) (*tmdb.MovieDetails, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	m, ok := f.movie[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMetadata) GetTV(_ context.Context, id int) (*tmdb.TVDetails, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	tv, ok := f.tv[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return &tv, nil
}

func (f *fakeMetadata) GetSeason(_ context.Context, _ int, number int) (*tmdb.SeasonDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seasonHits = append(f.seasonHits, number)
	if f.seasonErr != nil {
		return nil, f.seasonErr
	}
	s, ok := f.seasons[number]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return &s, nil
}

func (f *fakeMetadata) UpcomingMovies(context.Context) ([]tmdb.MovieResult, error) {
	if f.upcoming != nil {
		return nil, f.upcoming
	}
	return f.movies, nil
}

func (f *fakeMetadata) OnTheAirTV(context.Context) ([]tmdb.TVResult, error) {
	if f.onTheAir != nil {
		return nil, f.onTheAir
	}
	return f.shows, nil
}

func (f *fakeMetadata) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://img.test/" + size + path
}

type recordingPublisher struct {
	mu     sync.Mutex
	states []models.BannerState
}

func (p *recordingPublisher) PublishBanner(state models.BannerState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, state)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}

type staticBannerSource []models.BannerItem

func (s staticBannerSource) BannerPool(context.Context) []models.BannerItem {
	return s
}
