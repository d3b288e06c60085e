package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"parbids/internal/bids"
	"parbids/internal/config"
	"parbids/internal/journal"
	"parbids/internal/logging"
	"parbids/internal/parrec"
	"parbids/internal/philips"
	"parbids/internal/preflight"
	"parbids/internal/services"
	"parbids/internal/services/parrec2nii"
	"parbids/internal/sidecar"
)

// stateDirName holds the journal and the batch lock inside the output tree.
// Nothing outside the output directory is ever written.
const stateDirName = ".parbids"

// Runner executes one conversion batch.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	parser    *parrec.Parser
	auxReader *philips.Reader
	converter parrec2nii.Converter
	merger    *sidecar.Merger
}

// NewRunner constructs a Runner with the production converter client.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	converter := parrec2nii.NewCLI(
		parrec2nii.WithBinary(cfg.ConverterBinary()),
		parrec2nii.WithTimeout(time.Duration(cfg.Converter.TimeoutSeconds)*time.Second),
	)
	return NewRunnerWithConverter(cfg, logger, converter)
}

// NewRunnerWithConverter constructs a Runner around a caller-supplied
// converter, letting tests substitute a fake.
func NewRunnerWithConverter(cfg *config.Config, logger *slog.Logger, converter parrec2nii.Converter) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		parser:    parrec.NewParser(logger),
		auxReader: philips.NewReader(logger),
		converter: converter,
		merger:    sidecar.NewMerger(logger),
	}
}

// Run converts every discovered scan group and returns the batch summary.
// Individual group failures are recorded and never abort the batch; Run
// itself fails only when the batch cannot start at all.
func (r *Runner) Run(ctx context.Context, subjects []string) (*Summary, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "", "create directories", err)
	}
	if _, err := preflight.Run(r.cfg); err != nil {
		return nil, err
	}

	stateDir := filepath.Join(r.cfg.OutputDir, stateDirName)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "", "create state directory", err)
	}

	lock := flock.New(filepath.Join(stateDir, "lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "", "acquire dataset lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "",
			fmt.Sprintf("another run holds the dataset lock at %s", lock.Path()), nil)
	}
	defer lock.Unlock()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	store, err := r.openJournal(ctx, stateDir, runID)
	if err != nil {
		logger.Warn("journal unavailable, continuing without it", logging.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	if err := ensureDatasetDescription(r.cfg); err != nil {
		return nil, err
	}

	groups, err := DiscoverScanGroups(r.cfg.DataDir, subjects)
	if err != nil {
		return nil, err
	}
	logger.Info("starting batch",
		logging.Int("scan_groups", len(groups)),
		logging.String("data_dir", r.cfg.DataDir),
		logging.String("output_dir", r.cfg.OutputDir),
	)

	summary := &Summary{RunID: runID}
	classifier := bids.NewClassifier(r.cfg.Classification.Tasks, r.logger)
	ledger := bids.NewLedger()

	for _, group := range groups {
		result := r.processGroup(ctx, group, classifier, ledger, summary)
		summary.add(result)
		r.journalResult(ctx, store, runID, result)
	}

	if store != nil {
		if err := store.FinishRun(ctx, runID, time.Now().UTC(), summary.Succeeded, summary.Skipped, summary.Failed); err != nil {
			logger.Warn("journal run not finalized", logging.Error(err))
		}
	}

	logger.Info("batch finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r *Runner) openJournal(ctx context.Context, stateDir, runID string) (*journal.Store, error) {
	if !r.cfg.Journal.Enabled {
		return nil, nil
	}
	store, err := journal.Open(filepath.Join(stateDir, "journal.db"))
	if err != nil {
		return nil, err
	}
	if err := store.BeginRun(ctx, runID, time.Now().UTC()); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func (r *Runner) journalResult(ctx context.Context, store *journal.Store, runID string, result Result) {
	if store == nil {
		return
	}
	_, err := store.Append(ctx, journal.Record{
		RunID:      runID,
		Subject:    result.Group.Subject,
		Session:    result.Identity.Session,
		ScanName:   result.Group.Name,
		SourcePath: result.Group.PARPath,
		OutputPath: result.OutputPath,
		Status:     result.Status,
		Reason:     result.Reason,
	})
	if err != nil {
		r.logger.Warn("journal append failed",
			logging.String("scan", result.Group.Name),
			logging.Error(err),
		)
	}
}

// processGroup runs the full pipeline for one scan group. It never returns
// an error; every failure mode is folded into the result so the batch keeps
// going.
func (r *Runner) processGroup(ctx context.Context, group ScanGroup, classifier *bids.Classifier, ledger *bids.Ledger, summary *Summary) Result {
	ctx = services.WithScan(ctx, group.Name)
	logger := logging.WithContext(ctx, r.logger)
	result := Result{Group: group}

	raw, err := r.parser.Parse(group.PARPath)
	if err != nil {
		return failed(result, err)
	}
	if !raw.Has("ProtocolName") {
		if info, ok := parrec.ParseFilename(group.PARPath); ok {
			raw["ProtocolName"] = info.ProtocolName
		}
	}

	aux := r.auxReader.Read(group.XMLPath, group.V41Path)

	identity, reassigned := classifier.Classify(raw, group.Subject, r.cfg.Classification.DefaultSession, ledger)
	result.Identity = identity
	for _, change := range reassigned {
		if err := r.renameArtifacts(change, summary); err != nil {
			logger.Warn("could not apply run index to earlier scan", logging.Error(err))
		}
	}

	path := bids.BuildPath(r.cfg.OutputDir, identity)
	result.OutputPath = path.Image()

	if !r.cfg.Output.OverwriteExisting {
		if _, err := os.Stat(path.Image()); err == nil {
			result.Status = journal.StatusSkipped
			result.Reason = "output already exists"
			logger.Info("skipping existing output", logging.String("output", path.Image()))
			return result
		}
	}

	if err := os.MkdirAll(path.Directory, 0o755); err != nil {
		return failed(result, services.Wrap(services.ErrConfiguration, "convert", group.Name, "create output directory", err))
	}

	converted, err := r.converter.Convert(services.WithStep(ctx, "convert"), group.PARPath, path.Directory)
	if err != nil {
		return failed(result, err)
	}
	if converted != path.Image() {
		if err := os.Rename(converted, path.Image()); err != nil {
			return failed(result, services.Wrap(services.ErrValidation, "organize", group.Name, "rename converter output", err))
		}
	}

	record := r.merger.Merge(raw, aux, identity, group.Sources())
	if err := record.WriteFile(path.Sidecar()); err != nil {
		return failed(result, services.Wrap(services.ErrValidation, "sidecar", group.Name, "write sidecar", err))
	}

	result.Status = journal.StatusSucceeded
	logger.Info("converted scan",
		logging.String("output", path.Image()),
		logging.String("suffix", identity.Suffix),
	)
	return result
}

// renameArtifacts moves the image and sidecar of an earlier scan to their
// run-indexed names and fixes up the recorded result.
func (r *Runner) renameArtifacts(change bids.Reassignment, summary *Summary) error {
	before := bids.BuildPath(r.cfg.OutputDir, change.Before)
	after := bids.BuildPath(r.cfg.OutputDir, change.After)

	for _, pair := range [][2]string{
		{before.Image(), after.Image()},
		{before.Sidecar(), after.Sidecar()},
	} {
		if _, err := os.Stat(pair[0]); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.Rename(pair[0], pair[1]); err != nil {
			return err
		}
	}

	for i := range summary.Results {
		if summary.Results[i].Identity == change.Before {
			summary.Results[i].Identity = change.After
			summary.Results[i].OutputPath = after.Image()
		}
	}
	return nil
}

func failed(result Result, err error) Result {
	result.Status = services.ResultStatus(err)
	result.Reason = err.Error()
	return result
}
