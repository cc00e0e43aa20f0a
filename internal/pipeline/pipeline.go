// Package pipeline drives a translation job from a staged upload through
// language/mode selection, per-member translation, packaging and delivery,
// with unconditional cleanup of transient storage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/myansub/subtran/internal"
	"github.com/myansub/subtran/internal/archive"
	"github.com/myansub/subtran/internal/classify"
	"github.com/myansub/subtran/internal/prompt"
	"github.com/myansub/subtran/internal/session"
	"github.com/myansub/subtran/internal/translator"
)

var (
	// ErrNoUpload reports a selection that arrived with no staged upload,
	// e.g. a stale button press after a job already cleaned up.
	ErrNoUpload = errors.New("no uploaded file found")

	// ErrUnsupportedType reports a single-file upload whose extension is not
	// translatable.
	ErrUnsupportedType = errors.New("unsupported file type for single-file translation")
)

// Memory is the optional translation cache consulted before the gateway.
type Memory interface {
	Get(ctx context.Context, sourceText, targetLang, template string) (string, bool, error)
	Save(ctx context.Context, sourceText, targetLang, template, finalText string) error
}

// Detector supplies an optional source-language hint for prompts.
type Detector interface {
	Hint(text string) (string, bool)
}

// Deliverer hands a finished output file back to the originating user.
// Delivery happens before cleanup so the file still exists when sent.
type Deliverer interface {
	SendDocument(userID int64, path string) error
}

// Pipeline is the per-user job orchestrator.
type Pipeline struct {
	gateway  translator.Gateway
	sessions *session.Store
	memory   Memory   // nil disables the translation cache
	detector Detector // nil disables source hints
	dataDir  string   // upload staging area
	workRoot string   // per-user working directories live under here
	log      zerolog.Logger

	// Events for one user run to completion in arrival order; only other
	// users' events interleave around gateway calls. Guards the per-user
	// working directory and staged upload against concurrent jobs.
	mu    sync.Mutex
	users map[int64]*sync.Mutex
}

type Config struct {
	DataDir  string
	WorkRoot string
	Memory   Memory
	Detector Detector
	Logger   zerolog.Logger
}

func New(gateway translator.Gateway, sessions *session.Store, cfg Config) *Pipeline {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.WorkRoot == "" {
		cfg.WorkRoot = "work"
	}
	return &Pipeline{
		gateway:  gateway,
		sessions: sessions,
		memory:   cfg.Memory,
		detector: cfg.Detector,
		dataDir:  cfg.DataDir,
		workRoot: cfg.WorkRoot,
		log:      cfg.Logger,
		users:    make(map[int64]*sync.Mutex),
	}
}

func (p *Pipeline) userLock(userID int64) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.users[userID]
	if !ok {
		l = &sync.Mutex{}
		p.users[userID] = l
	}
	return l
}

// Receive stages an uploaded document and records it as the user's current
// upload, replacing any previous one. The staged name is prefixed with a
// unique id so concurrent users never collide in the staging area.
func (p *Pipeline) Receive(userID int64, filename string, r io.Reader) (session.UploadRecord, error) {
	l := p.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return session.UploadRecord{}, fmt.Errorf("create staging dir: %w", err)
	}

	base := filepath.Base(filename)
	staged := filepath.Join(p.dataDir, fmt.Sprintf("%s_%s", uuid.NewString(), base))

	out, err := os.Create(staged)
	if err != nil {
		return session.UploadRecord{}, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(staged)
		return session.UploadRecord{}, fmt.Errorf("stage upload: %w", err)
	}
	if err := out.Close(); err != nil {
		return session.UploadRecord{}, fmt.Errorf("stage upload: %w", err)
	}

	kind := session.SingleFile
	if classify.Detect(base) == classify.Archive {
		kind = session.Archive
	}

	rec := session.UploadRecord{Path: staged, Kind: kind, OriginalName: base}
	p.sessions.Put(userID, rec)

	p.log.Info().Int64("user", userID).Str("file", base).Str("staged", staged).Msg("upload staged")
	return rec, nil
}

// Run executes the Processing phase for the user's staged upload and returns
// a short status line on success. Any error aborts the whole job; there is no
// partial-success outcome. Cleanup of the staged upload, the working
// directory and the session entry always runs once processing has begun,
// whether the job is delivered or failed.
func (p *Pipeline) Run(ctx context.Context, userID int64, target internal.Language, mode internal.Mode, deliver Deliverer) (string, error) {
	l := p.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, ok := p.sessions.Get(userID)
	if !ok {
		return "", ErrNoUpload
	}

	// Reject unsupported single files before any filesystem side effect.
	kind := classify.Detect(rec.OriginalName)
	if rec.Kind == session.SingleFile && !classify.Translatable(kind) {
		p.cleanup(userID, rec)
		return "", ErrUnsupportedType
	}

	workDir := filepath.Join(p.workRoot, fmt.Sprintf("%d", userID))
	defer p.cleanup(userID, rec)

	// A stale directory from an unfinished earlier run must not leak into
	// this job.
	if err := os.RemoveAll(workDir); err != nil {
		return "", fmt.Errorf("reset working dir: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("create working dir: %w", err)
	}

	if rec.Kind == session.Archive {
		return p.runArchive(ctx, userID, rec, target, mode, workDir, deliver)
	}
	return p.runSingle(ctx, userID, rec, kind, target, mode, workDir, deliver)
}

func (p *Pipeline) runArchive(ctx context.Context, userID int64, rec session.UploadRecord, target internal.Language, mode internal.Mode, workDir string, deliver Deliverer) (string, error) {
	extractDir := filepath.Join(workDir, "extracted")
	if err := archive.Extract(rec.Path, extractDir); err != nil {
		return "", err
	}

	members, err := translatableMembers(extractDir)
	if err != nil {
		return "", fmt.Errorf("scan extracted files: %w", err)
	}

	// Members are translated strictly one at a time; each gateway call
	// resolves before the next member starts.
	translated := 0
	for _, member := range members {
		if err := p.translateFile(ctx, member.path, member.kind, target, mode); err != nil {
			return "", err
		}
		translated++
		p.log.Info().Int64("user", userID).Str("member", member.path).Str("kind", member.kind.String()).Msg("member translated")
	}

	outZip := filepath.Join(workDir, fmt.Sprintf("translated_%d.zip", userID))
	if err := archive.Repackage(extractDir, outZip); err != nil {
		return "", err
	}

	if err := deliver.SendDocument(userID, outZip); err != nil {
		return "", fmt.Errorf("deliver archive: %w", err)
	}
	return fmt.Sprintf("✅ Done. Translated files: %d", translated), nil
}

func (p *Pipeline) runSingle(ctx context.Context, userID int64, rec session.UploadRecord, kind classify.Kind, target internal.Language, mode internal.Mode, workDir string, deliver Deliverer) (string, error) {
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	out, err := p.translateText(ctx, string(data), kind, target, mode)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(workDir, "translated_"+rec.OriginalName)
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}

	if err := deliver.SendDocument(userID, outPath); err != nil {
		return "", fmt.Errorf("deliver file: %w", err)
	}
	return "✅ Done.", nil
}

type member struct {
	path string
	kind classify.Kind
}

// translatableMembers walks dir in sorted order and returns the files whose
// extension classifies as subtitle or string-file.
func translatableMembers(dir string) ([]member, error) {
	var members []member
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if kind := classify.Detect(info.Name()); classify.Translatable(kind) {
			members = append(members, member{path: path, kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(members, func(i, j int) bool { return members[i].path < members[j].path })
	return members, nil
}

// translateFile replaces the file's content with its translation.
func (p *Pipeline) translateFile(ctx context.Context, path string, kind classify.Kind, target internal.Language, mode internal.Mode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	out, err := p.translateText(ctx, string(data), kind, target, mode)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// templateKey names the prompt contract applied; it doubles as the
// translation-memory key component.
func templateKey(kind classify.Kind, mode internal.Mode) string {
	if kind == classify.StringFile {
		return "string-file"
	}
	if mode == internal.ModeAdultSafe {
		return "subtitle-adult"
	}
	return "subtitle"
}

func (p *Pipeline) translateText(ctx context.Context, content string, kind classify.Kind, target internal.Language, mode internal.Mode) (string, error) {
	key := templateKey(kind, mode)

	if p.memory != nil {
		if cached, found, err := p.memory.Get(ctx, content, target.Code, key); err == nil && found {
			p.log.Debug().Str("template", key).Str("lang", target.Code).Msg("translation memory hit")
			return cached, nil
		}
	}

	var hint string
	if p.detector != nil {
		if name, ok := p.detector.Hint(content); ok {
			hint = name
		}
	}

	var rendered string
	switch key {
	case "string-file":
		rendered = prompt.StringFile(content, target.Name, hint)
	case "subtitle-adult":
		rendered = prompt.SubtitleAdultSafe(content, target.Name, hint)
	default:
		rendered = prompt.Subtitle(content, target.Name, hint)
	}

	completion, err := p.gateway.Complete(ctx, rendered)
	if err != nil {
		return "", fmt.Errorf("translation gateway: %w", err)
	}

	if completion.Kind == translator.Unrecognized {
		p.log.Warn().Str("template", key).Msg("gateway returned unrecognized response shape")
	} else if p.memory != nil {
		if err := p.memory.Save(ctx, content, target.Code, key, completion.Text); err != nil {
			p.log.Warn().Err(err).Msg("translation memory save failed")
		}
	}

	return completion.Output(), nil
}

// cleanup deletes the staged upload, the working directory and the session
// entry. Failures are logged and swallowed so they never mask the outcome
// already reported to the user.
func (p *Pipeline) cleanup(userID int64, rec session.UploadRecord) {
	if rec.Path != "" {
		if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
			p.log.Warn().Err(err).Str("path", rec.Path).Msg("failed to remove staged upload")
		}
	}

	workDir := filepath.Join(p.workRoot, fmt.Sprintf("%d", userID))
	if err := os.RemoveAll(workDir); err != nil {
		p.log.Warn().Err(err).Str("path", workDir).Msg("failed to remove working dir")
	}

	p.sessions.Remove(userID)
}
