package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/animicons/internal/icon"
	"github.com/roach88/animicons/internal/offline"
)

// StoreResult is the result of `offline store`.
type StoreResult struct {
	Status string   `json:"status"`
	Icons  []string `json:"icons"`
}

func (r StoreResult) String() string {
	return fmt.Sprintf("stored %d icon(s): %s", len(r.Icons), strings.Join(r.Icons, ", "))
}

// StoredData is the result of `offline get`. It encodes as the payload
// itself, keeping the stored shape: a single object or an array.
type StoredData struct {
	Data icon.Payload
}

// MarshalJSON implements json.Marshaler.
func (d StoredData) MarshalJSON() ([]byte, error) {
	return d.Data.MarshalJSON()
}

func (d StoredData) String() string {
	return strings.Join(d.Data.Names(), "\n")
}

// HasResult is the result of `offline has`.
type HasResult struct {
	Has bool `json:"has"`
}

func (r HasResult) String() string {
	return fmt.Sprintf("%t", r.Has)
}

// ClearResult is the result of `offline clear`.
type ClearResult struct {
	Status string `json:"status"`
}

func (r ClearResult) String() string {
	return "offline icon data cleared"
}

// InfoResult is the result of `offline info`.
type InfoResult struct {
	Backend string `json:"backend"`
	offline.StorageInfo
}

func (r InfoResult) String() string {
	return fmt.Sprintf("backend:   %s\nversion:   %s\ntimestamp: %d\nsize:      %d",
		r.Backend, r.Version, r.Timestamp, r.Size)
}

// OfflineStoreOptions holds flags for `offline store`.
type OfflineStoreOptions struct {
	*RootOptions
	File string
}

// NewOfflineCommand creates the offline command group.
func NewOfflineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offline",
		Short: "Manage the offline icon cache",
		Long: `Manage the offline icon cache.

The backend, medium and location come from settings (backend, medium,
data_dir). Every operation is gated on library.enable_offline_mode.

Exit codes:
  0 - Success
  1 - No valid offline data, offline mode disabled, or storage failure
  2 - Command error (invalid settings, unreadable input)`,
	}

	storeOpts := &OfflineStoreOptions{RootOptions: rootOpts}
	store := &cobra.Command{
		Use:   "store",
		Short: "Store icon data for offline use",
		Long: `Store icon data for offline use, replacing any stored record.

Without --file every catalog icon is stored. The file holds a JSON icon
datum object, an array of them, or null.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOfflineStore(storeOpts, cmd)
		},
	}
	store.Flags().StringVarP(&storeOpts.File, "file", "f", "", "JSON file with icon data")
	cmd.AddCommand(store)

	cmd.AddCommand(&cobra.Command{
		Use:           "get",
		Short:         "Print the stored icon data",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOfflineGet(rootOpts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "has",
		Short:         "Report whether valid offline data is stored (exit 1 if not)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOfflineHas(rootOpts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Remove the stored icon data",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOfflineClear(rootOpts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "info",
		Short:         "Describe the stored record, whatever its version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOfflineInfo(rootOpts, cmd)
		},
	})

	return cmd
}

// failOutcome reports a non-OK outcome of a cache operation.
func failOutcome(out *OutputFormatter, outcome offline.Outcome) error {
	switch outcome.Status {
	case offline.StatusDisabled:
		return out.Fail(ExitFailure, ErrCodeDisabled, "offline mode is disabled", nil)
	case offline.StatusAbsent:
		return out.Fail(ExitFailure, ErrCodeNoData, "no offline icon data stored", nil)
	case offline.StatusStale:
		return out.Fail(ExitFailure, ErrCodeNoData, "stored offline icon data has an outdated version", nil)
	default:
		return out.Fail(ExitFailure, ErrCodeStorage, "offline storage "+outcome.Status.String(), outcome.Err)
	}
}

func readPayload(path string) (icon.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return icon.Payload{}, err
	}
	var payload icon.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return icon.Payload{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return payload, nil
}

func runOfflineStore(opts *OfflineStoreOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	payload := s.catalog.Data()
	if opts.File != "" {
		payload, err = readPayload(opts.File)
		if err != nil {
			return s.out.Fail(ExitCommandError, ErrCodeInput, "failed to read icon data", err)
		}
	}
	s.out.VerboseLog("Storing %d icon(s)", payload.Len())

	outcome := s.library.StoreIconData(s.ctx, payload)
	if !outcome.OK() {
		return failOutcome(s.out, outcome)
	}
	return s.out.Success(StoreResult{Status: outcome.Status.String(), Icons: payload.Names()})
}

func runOfflineGet(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	data, outcome := s.library.StoredIconData(s.ctx)
	if !outcome.OK() {
		return failOutcome(s.out, outcome)
	}
	return s.out.Success(StoredData{Data: data})
}

func runOfflineHas(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	has := s.library.HasOfflineData(s.ctx)
	if err := s.out.Success(HasResult{Has: has}); err != nil {
		return err
	}
	if !has {
		return NewExitError(ExitFailure, "no offline icon data")
	}
	return nil
}

func runOfflineClear(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	outcome := s.library.ClearOfflineData(s.ctx)
	if !outcome.OK() {
		return failOutcome(s.out, outcome)
	}
	return s.out.Success(ClearResult{Status: outcome.Status.String()})
}

func runOfflineInfo(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	inspector, ok := s.library.Storage().(offline.Inspector)
	if !ok {
		return s.out.Fail(ExitFailure, ErrCodeStorage, "backend does not expose storage info", nil)
	}
	info, ok := inspector.Info(s.ctx)
	if !ok {
		return s.out.Fail(ExitFailure, ErrCodeNoData, "no offline icon record stored", nil)
	}
	return s.out.Success(InfoResult{Backend: s.settings.Backend, StorageInfo: info})
}
