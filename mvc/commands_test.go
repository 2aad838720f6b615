package mvc

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soriblog/app/models"
	"soriblog/app/repositories"
	"soriblog/app/sessions"
)

type testEnv struct {
	dbPath     string
	sessionDir string
	backupDir  string
}

// setupTestEnv points the configuration at a scratch directory.
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	env := testEnv{
		dbPath:     filepath.Join(dir, "blog.db"),
		sessionDir: filepath.Join(dir, "sessions"),
		backupDir:  filepath.Join(dir, "backups"),
	}
	t.Setenv("DB_PATH", env.dbPath)
	t.Setenv("SESSION_DIR", env.sessionDir)
	t.Setenv("BACKUP_DIR", env.backupDir)
	return env
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand("1.2.3")
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedPost(t *testing.T, dbPath, title string) {
	t.Helper()
	db, err := repositories.Open(dbPath, nil)
	require.NoError(t, err)
	defer repositories.Close(db)

	user := &models.User{Email: "admin@example.com", Password: "hash", Name: "Admin"}
	require.NoError(t, db.FirstOrCreate(user, models.User{Email: user.Email}).Error)
	post := &models.Post{
		AuthorID: user.ID,
		Title:    title,
		Subtitle: "sub",
		Date:     "May 1, 2024",
		Body:     "<p>body</p>",
		ImgURL:   "https://images.example.com/a.jpg",
	}
	require.NoError(t, repositories.NewGormPostRepository(db).Create(context.Background(), post))
}

func postTitles(t *testing.T, dbPath string) []string {
	t.Helper()
	db, err := repositories.Open(dbPath, nil)
	require.NoError(t, err)
	defer repositories.Close(db)

	posts, err := repositories.NewGormPostRepository(db).List(context.Background())
	require.NoError(t, err)
	var titles []string
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestVersion(t *testing.T) {
	setupTestEnv(t)
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "soriblog version 1.2.3\n", out)
}

func TestUnknownCommand(t *testing.T) {
	setupTestEnv(t)
	_, err := run(t, "", "frobnicate")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	env := setupTestEnv(t)

	out, err := run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized")
	assert.FileExists(t, env.dbPath)
	assert.Empty(t, postTitles(t, env.dbPath))
}

func TestClean(t *testing.T) {
	t.Run("nothing to clean", func(t *testing.T) {
		setupTestEnv(t)
		out, err := run(t, "", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Nothing to clean")
	})

	t.Run("declined", func(t *testing.T) {
		env := setupTestEnv(t)
		seedPost(t, env.dbPath, "Keep Me")

		out, err := run(t, "n\n", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "[y/N]")
		assert.Contains(t, out, "Operation cancelled")
		assert.Equal(t, []string{"Keep Me"}, postTitles(t, env.dbPath))
	})

	t.Run("confirmed", func(t *testing.T) {
		env := setupTestEnv(t)
		seedPost(t, env.dbPath, "Doomed")
		store, err := sessions.Open(env.sessionDir, time.Hour, nil)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		out, err := run(t, "y\n", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Database cleaned successfully")
		assert.NoFileExists(t, env.dbPath)
		assert.NoDirExists(t, env.sessionDir)
	})

	t.Run("yes flag", func(t *testing.T) {
		env := setupTestEnv(t)
		seedPost(t, env.dbPath, "Doomed")

		out, err := run(t, "", "clean", "--yes")
		require.NoError(t, err)
		assert.NotContains(t, out, "[y/N]")
		assert.NoFileExists(t, env.dbPath)
	})
}

func TestSessions(t *testing.T) {
	env := setupTestEnv(t)

	store, err := sessions.Open(env.sessionDir, time.Hour, nil)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := store.Create(i)
		require.NoError(t, err)
	}
	require.NoError(t, store.Close())

	out, err := run(t, "", "sessions", "count")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, err = run(t, "", "sessions", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "All sessions purged")

	out, err = run(t, "", "sessions", "count")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestBackupAndRestore(t *testing.T) {
	env := setupTestEnv(t)

	_, err := run(t, "", "backup")
	assert.ErrorContains(t, err, "no database")

	seedPost(t, env.dbPath, "Before Backup")

	out, err := run(t, "", "backup")
	require.NoError(t, err)
	assert.Contains(t, out, "Database backed up successfully")

	backups, err := filepath.Glob(filepath.Join(env.backupDir, "backup_*.db"))
	require.NoError(t, err)
	require.Len(t, backups, 1)

	seedPost(t, env.dbPath, "After Backup")
	require.Len(t, postTitles(t, env.dbPath), 2)

	t.Run("declined", func(t *testing.T) {
		out, err := run(t, "\n", "restore", backups[0])
		require.NoError(t, err)
		assert.Contains(t, out, "Operation cancelled")
		assert.Len(t, postTitles(t, env.dbPath), 2)
	})

	t.Run("confirmed", func(t *testing.T) {
		out, err := run(t, "y\n", "restore", backups[0])
		require.NoError(t, err)
		assert.Contains(t, out, "Database restored successfully")
		assert.Equal(t, []string{"Before Backup"}, postTitles(t, env.dbPath))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "", "restore", filepath.Join(env.backupDir, "nope.db"), "--yes")
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("not a database", func(t *testing.T) {
		junk := filepath.Join(t.TempDir(), "junk.db")
		require.NoError(t, os.WriteFile(junk, []byte("definitely not sqlite"), 0o644))
		_, err := run(t, "", "restore", junk, "--yes")
		assert.Error(t, err)
	})

	t.Run("requires a file argument", func(t *testing.T) {
		_, err := run(t, "", "restore")
		assert.Error(t, err)
	})
}
