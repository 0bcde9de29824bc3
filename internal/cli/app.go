package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/config"
	"github.com/voiceprint/voiceprint/internal/db"
	"github.com/voiceprint/voiceprint/internal/learn"
	"github.com/voiceprint/voiceprint/internal/lexicon"
	"github.com/voiceprint/voiceprint/internal/logging"
	"github.com/voiceprint/voiceprint/internal/personalize"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/session"
	"github.com/voiceprint/voiceprint/internal/store"
)

var (
	// errNotInitialized is returned when no .voiceprint/ directory is found.
	errNotInitialized = errors.New("voiceprint not initialized. Run `voiceprint init` first")
	// errInvalidFlag wraps every rejected flag value.
	errInvalidFlag = errors.New("invalid flag value")
)

// env is the configuration a command runs with. root is empty outside a
// workspace.
type env struct {
	root string
	cfg  config.GlobalConfig
	log  *zap.Logger
	lex  *lexicon.Lexicon
}

// loadEnv reads config and the lexicon. A missing workspace falls back to
// the global config so stateless commands work anywhere.
func loadEnv() (*env, error) {
	root, err := findRoot()
	if err != nil && !errors.Is(err, errNotInitialized) {
		return nil, err
	}

	var cfg config.GlobalConfig
	if root != "" {
		cfg, err = config.Load(root)
	} else {
		cfg, err = config.LoadGlobal()
	}
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging.Mode, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	lexPath := cfg.Lexicon.Path
	if root != "" {
		lexPath = config.Resolve(root, lexPath)
	}
	lex, err := lexicon.LoadOrDefault(lexPath)
	if err != nil {
		return nil, err
	}
	return &env{root: root, cfg: cfg, log: log, lex: lex}, nil
}

// workspace is an env with the database and learning components open.
type workspace struct {
	*env
	db      *db.DB
	an      *analyzer.Analyzer
	mgr     *profile.Manager
	store   *store.Store
	locks   *store.Locks
	learner *learn.Learner
}

// openWorkspace opens the workspace the current directory belongs to.
func openWorkspace() (*workspace, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	if e.root == "" {
		return nil, errNotInitialized
	}

	policy, ok := profile.ParsePolicy(e.cfg.Analysis.Policy)
	if !ok {
		return nil, fmt.Errorf("%w: analysis.policy %q (want replace or blend)", errInvalidFlag, e.cfg.Analysis.Policy)
	}

	database, err := db.Open(config.ProjectDBPath(e.root))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if !database.HasVector() {
		e.log.Debug("sqlite-vec unavailable, drift search scans fingerprints directly")
	}

	an := analyzer.New(e.lex)
	mgr := profile.NewManager(an, e.lex,
		profile.WithLogger(e.log),
		profile.WithWindow(e.cfg.Analysis.Window),
		profile.WithPolicy(policy),
	)
	st := store.New(database, store.WithManager(mgr), store.WithLogger(e.log))
	locks := &store.Locks{}
	orch := session.NewOrchestrator(an, mgr, session.WithLogger(e.log))

	return &workspace{
		env:     e,
		db:      database,
		an:      an,
		mgr:     mgr,
		store:   st,
		locks:   locks,
		learner: learn.New(st, orch, learn.WithLocks(locks), learn.WithLogger(e.log)),
	}, nil
}

func (w *workspace) Close() error {
	_ = w.log.Sync()
	return w.db.Close()
}

// user picks the flag value over the configured user.
func (e *env) user(flag string) string {
	if flag != "" {
		return flag
	}
	return e.cfg.User.ID
}

// engine builds a personalization engine. A zero seed falls back to the
// configured one; a zero configured seed draws from the global source.
func (e *env) engine(seed uint64) *personalize.Engine {
	if seed == 0 {
		seed = e.cfg.Personalization.Seed
	}
	opts := []personalize.Option{personalize.WithLogger(e.log)}
	if seed != 0 {
		opts = append(opts, personalize.WithSeed(seed))
	}
	return personalize.NewEngine(e.lex, opts...)
}

// findRoot walks up from the working directory to the first directory that
// holds a .voiceprint/ workspace.
func findRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return findRootFrom(cwd)
}

func findRootFrom(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, config.WorkspaceDirName)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errNotInitialized
		}
		dir = parent
	}
}
