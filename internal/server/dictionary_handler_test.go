package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/oxword/internal/config"
	"github.com/at-ishikawa/oxword/internal/dictionary"
	mock_dictionary "github.com/at-ishikawa/oxword/internal/mocks/dictionary"
)

var (
	about = dictionary.Word{
		ID:           1,
		Word:         "about",
		Level:        dictionary.LevelA1,
		PartOfSpeech: "preposition",
		Definition:   "on the subject of somebody/something",
		Examples:     dictionary.StringList{"a book about flowers"},
		Translation:  "hakkında",
	}
	abandon = dictionary.Word{
		ID:                 3,
		Word:               "abandon",
		Level:              dictionary.LevelB2,
		PartOfSpeech:       "verb",
		Definition:         "to leave somebody with no intention of returning",
		Examples:           dictionary.StringList{"They abandoned the car."},
		Synonyms:           dictionary.StringList{"desert"},
		Translation:        "terk etmek",
		TranslatedExamples: dictionary.StringList{"Arabayı terk ettiler."},
	}
)

func serve(t *testing.T, repo dictionary.WordRepository, target string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(config.ServerConfig{BulkLimit: 100}, repo)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestDictionaryHandler_ListWords(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(repo *mock_dictionary.MockWordRepository)
		wantStatus int
		wantTotal  float64
	}{
		{
			name:   "default limit",
			target: "/api/dictionary/words",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindAll(gomock.Any(), 100).Return([]dictionary.Word{abandon, about}, nil)
			},
			wantStatus: http.StatusOK,
			wantTotal:  2,
		},
		{
			name:   "limit is capped by the bulk limit",
			target: "/api/dictionary/words?limit=10000",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindAll(gomock.Any(), 100).Return([]dictionary.Word{}, nil)
			},
			wantStatus: http.StatusOK,
			wantTotal:  0,
		},
		{
			name:       "invalid limit",
			target:     "/api/dictionary/words?limit=many",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "repository error",
			target: "/api/dictionary/words",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindAll(gomock.Any(), 100).Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_dictionary.NewMockWordRepository(ctrl)
			tt.setupMock(repo)

			recorder := serve(t, repo, tt.target)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			body := decodeBody(t, recorder)
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, body["detail"])
				return
			}
			assert.Equal(t, tt.wantTotal, body["total"])
			assert.Len(t, body["words"], int(tt.wantTotal))
		})
	}
}

func TestDictionaryHandler_ListWords_Document(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_dictionary.NewMockWordRepository(ctrl)
	repo.EXPECT().FindAll(gomock.Any(), 100).Return([]dictionary.Word{abandon}, nil)

	recorder := serve(t, repo, "/api/dictionary/words")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{
		"total": 1,
		"words": [{
			"word": "abandon",
			"CEFR": "B2",
			"type": "verb",
			"definition": "to leave somebody with no intention of returning",
			"examples": ["They abandoned the car."],
			"synonyms": ["desert"],
			"translations": {"tr": {"word": "terk etmek", "examples": ["Arabayı terk ettiler."]}},
			"note": ""
		}]
	}`, recorder.Body.String())
}

func TestDictionaryHandler_GetWord(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(repo *mock_dictionary.MockWordRepository)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "found",
			target: "/api/dictionary/word?term=abandon&cefr=B2",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "abandon", dictionary.LevelB2).Return(&abandon, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: `{
				"word": "abandon",
				"CEFR": "B2",
				"type": "verb",
				"definition": "to leave somebody with no intention of returning",
				"examples": [{"en": "They abandoned the car.", "tr": "Arabayı terk ettiler."}],
				"synonyms": ["desert"],
				"turkishTranslation": "terk etmek",
				"turkishExamples": ["Arabayı terk ettiler."]
			}`,
		},
		{
			name:   "lowercase level and encoded term",
			target: "/api/dictionary/word?term=a%20lot&cefr=a1",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "a lot", dictionary.LevelA1).Return(&about, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "without level",
			target: "/api/dictionary/word?term=about",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.Level("")).Return(&about, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "not found",
			target: "/api/dictionary/word?term=zzz&cefr=A1",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "zzz", dictionary.LevelA1).Return(nil, nil)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail": "Word not found"}`,
		},
		{
			name:       "missing term",
			target:     "/api/dictionary/word?cefr=A1",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail": "Word term parameter is required"}`,
		},
		{
			name:       "invalid level",
			target:     "/api/dictionary/word?term=about&cefr=Z9",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "repository error",
			target: "/api/dictionary/word?term=about&cefr=A1",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.LevelA1).Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_dictionary.NewMockWordRepository(ctrl)
			tt.setupMock(repo)

			recorder := serve(t, repo, tt.target)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}

func TestDictionaryHandler_ListWordsByLevel(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(repo *mock_dictionary.MockWordRepository)
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:   "second page",
			target: "/api/dictionary/cefr?level=b2&limit=1&skip=1",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().CountByLevel(gomock.Any(), dictionary.LevelB2).Return(3, nil)
				repo.EXPECT().FindByLevel(gomock.Any(), dictionary.LevelB2, 1, 1).Return([]dictionary.Word{abandon}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"total": float64(3), "page": float64(2), "totalPages": float64(3)},
		},
		{
			name:   "no words",
			target: "/api/dictionary/cefr?level=C2",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().CountByLevel(gomock.Any(), dictionary.LevelC2).Return(0, nil)
				repo.EXPECT().FindByLevel(gomock.Any(), dictionary.LevelC2, 50, 0).Return([]dictionary.Word{}, nil)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]any{"detail": "No words found for CEFR level C2", "total": float64(0)},
		},
		{
			name:       "missing level",
			target:     "/api/dictionary/cefr",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"detail": "CEFR level parameter is required"},
		},
		{
			name:       "all is not a level",
			target:     "/api/dictionary/cefr?level=all",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative skip",
			target:     "/api/dictionary/cefr?level=A1&skip=-1",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"detail": "skip must not be negative"},
		},
		{
			name:   "count error",
			target: "/api/dictionary/cefr?level=A1",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().CountByLevel(gomock.Any(), dictionary.LevelA1).Return(0, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_dictionary.NewMockWordRepository(ctrl)
			tt.setupMock(repo)

			recorder := serve(t, repo, tt.target)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			body := decodeBody(t, recorder)
			for key, want := range tt.wantBody {
				assert.Equal(t, want, body[key], key)
			}
		})
	}
}

func TestDictionaryHandler_SearchWords(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(repo *mock_dictionary.MockWordRepository)
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:   "defaults",
			target: "/api/dictionary/search?q=ab",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().Search(gomock.Any(), dictionary.SearchParams{
					Query:    "ab",
					Language: dictionary.SearchLanguageAll,
					Limit:    20,
				}).Return([]dictionary.Word{abandon, about}, 2, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"total": float64(2), "page": float64(1), "totalPages": float64(1)},
		},
		{
			name:   "turkish with level and paging",
			target: "/api/dictionary/search?q=terk&lang=tr&cefr=B2&limit=10&skip=20",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().Search(gomock.Any(), dictionary.SearchParams{
					Query:    "terk",
					Level:    dictionary.LevelB2,
					Language: dictionary.SearchLanguageTranslation,
					Limit:    10,
					Skip:     20,
				}).Return([]dictionary.Word{abandon}, 25, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"total": float64(25), "page": float64(3), "totalPages": float64(3)},
		},
		{
			name:       "query too short",
			target:     "/api/dictionary/search?q=a",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"detail": "Search query must be at least 2 characters"},
		},
		{
			name:       "unknown language",
			target:     "/api/dictionary/search?q=ab&lang=de",
			setupMock:  func(repo *mock_dictionary.MockWordRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "repository error",
			target: "/api/dictionary/search?q=ab",
			setupMock: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, 0, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_dictionary.NewMockWordRepository(ctrl)
			tt.setupMock(repo)

			recorder := serve(t, repo, tt.target)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			body := decodeBody(t, recorder)
			for key, want := range tt.wantBody {
				assert.Equal(t, want, body[key], key)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name           string
		allowedOrigins []string
		origin         string
		method         string
		wantStatus     int
		wantOrigin     string
	}{
		{
			name:           "allowed origin",
			allowedOrigins: []string{"http://localhost:3000"},
			origin:         "http://localhost:3000",
			method:         http.MethodGet,
			wantStatus:     http.StatusTeapot,
			wantOrigin:     "http://localhost:3000",
		},
		{
			name:           "unknown origin",
			allowedOrigins: []string{"http://localhost:3000"},
			origin:         "http://evil.example.com",
			method:         http.MethodGet,
			wantStatus:     http.StatusTeapot,
		},
		{
			name:           "wildcard",
			allowedOrigins: []string{"*"},
			origin:         "http://any.example.com",
			method:         http.MethodGet,
			wantStatus:     http.StatusTeapot,
			wantOrigin:     "*",
		},
		{
			name:           "preflight",
			allowedOrigins: []string{"http://localhost:3000"},
			origin:         "http://localhost:3000",
			method:         http.MethodOptions,
			wantStatus:     http.StatusNoContent,
			wantOrigin:     "http://localhost:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/api/dictionary/words", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()

			CORSMiddleware(next, tt.allowedOrigins).ServeHTTP(recorder, request)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantOrigin, recorder.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestNewHandler_Healthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := serve(t, mock_dictionary.NewMockWordRepository(ctrl), "/healthz")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
