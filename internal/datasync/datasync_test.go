package datasync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/oxword/internal/dictionary"
	mock_dictionary "github.com/at-ishikawa/oxword/internal/mocks/dictionary"
)

func TestImporter_ImportWords(t *testing.T) {
	about := dictionary.Word{Word: "about", Level: dictionary.LevelA1, Translation: "hakkında"}

	tests := []struct {
		name       string
		words      []dictionary.Word
		opts       ImportOptions
		setup      func(repo *mock_dictionary.MockWordRepository)
		want       *ImportResult
		wantOutput string
		wantErr    bool
	}{
		{
			name:  "new word is created",
			words: []dictionary.Word{about},
			setup: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.LevelA1).Return(nil, nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, w *dictionary.Word) error {
						assert.Equal(t, "hakkında", w.Translation)
						return nil
					})
			},
			want:       &ImportResult{WordsNew: 1},
			wantOutput: "  [NEW]  \"about\" (A1)\n",
		},
		{
			name:  "same headword at another level is new",
			words: []dictionary.Word{about},
			setup: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.LevelA1).
					Return(&dictionary.Word{Word: "about", Level: dictionary.LevelB1}, nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: &ImportResult{WordsNew: 1},
		},
		{
			name:  "existing word is skipped",
			words: []dictionary.Word{about},
			setup: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.LevelA1).Return(&about, nil)
			},
			want:       &ImportResult{WordsSkipped: 1},
			wantOutput: "  [SKIP]  \"about\" (A1)\n",
		},
		{
			name:  "existing word is updated",
			words: []dictionary.Word{about},
			opts:  ImportOptions{UpdateExisting: true},
			setup: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.LevelA1).Return(&about, nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
			},
			want:       &ImportResult{WordsUpdated: 1},
			wantOutput: "  [UPDATE]  \"about\" (A1)\n",
		},
		{
			name:  "dry run does not write",
			words: []dictionary.Word{about},
			opts:  ImportOptions{DryRun: true, UpdateExisting: true},
			setup: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.LevelA1).Return(nil, nil)
			},
			want: &ImportResult{WordsNew: 1},
		},
		{
			name: "invalid words are reported",
			words: []dictionary.Word{
				{Word: "", Level: dictionary.LevelA1},
				{Word: "abbey", Level: ""},
				{Word: "about", Level: dictionary.LevelAll},
			},
			setup:      func(repo *mock_dictionary.MockWordRepository) {},
			want:       &ImportResult{WordsInvalid: 3},
			wantOutput: "  [INVALID]  \"\" (A1)\n  [INVALID]  \"abbey\" ()\n  [INVALID]  \"about\" (all)\n",
		},
		{
			name:  "repository error",
			words: []dictionary.Word{about},
			setup: func(repo *mock_dictionary.MockWordRepository) {
				repo.EXPECT().FindByWord(gomock.Any(), "about", dictionary.LevelA1).Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_dictionary.NewMockWordRepository(ctrl)
			tt.setup(repo)

			var output bytes.Buffer
			got, err := NewImporter(repo, &output).ImportWords(context.Background(), tt.words, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantOutput != "" {
				assert.Equal(t, tt.wantOutput, output.String())
			}
		})
	}
}

func TestExporter_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_dictionary.NewMockWordRepository(ctrl)
	words := []dictionary.Word{{Word: "about", Level: dictionary.LevelA1}}
	repo.EXPECT().FindAll(gomock.Any(), 5000).Return(words, nil)

	got, err := NewExporter(repo).Export(context.Background(), 5000)
	require.NoError(t, err)
	assert.Equal(t, &WordsFile{Words: words}, got)
}

func TestWordsFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yml")
	data := &WordsFile{
		Words: []dictionary.Word{
			{
				Word:               "abandon",
				Level:              dictionary.LevelB2,
				PartOfSpeech:       "verb",
				Definition:         "to leave somebody with no intention of returning",
				Examples:           dictionary.StringList{"They abandoned the car."},
				Translation:        "terk etmek",
				TranslatedExamples: dictionary.StringList{"Arabayı terk ettiler."},
			},
		},
	}

	require.NoError(t, WriteWordsFile(path, data))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "cefr: B2")
	assert.NotContains(t, string(content), "created_at")

	got, err := ReadWordsFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReadWordsFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yml")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	got, err := ReadWordsFile(empty)
	require.NoError(t, err)
	assert.Empty(t, got.Words)

	broken := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(broken, []byte("words: [\n"), 0644))
	_, err = ReadWordsFile(broken)
	assert.Error(t, err)

	_, err = ReadWordsFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
