// Package importkit ingests journal export archives: it validates the
// archive container, extracts it one entry at a time with bounded memory,
// keeps every write inside its destination root, and rejects media files
// whose real content type is not allowed.
//
// # Source Formats
//
// Two archive layouts are understood, selected with a [SourceFormat]:
//
//   - [FormatJourniv]: data.json at the root, media under media/
//   - [FormatDayOne]: JournalName.json at the root, media under photos/,
//     videos/, audios/ and pdfs/
//
// # Validating Before Extracting
//
// [ValidateArchive] reads only the central directory and the compressed
// data (to check CRCs). It never returns an error; problems are listed in
// the result:
//
//	res := importkit.ValidateArchive("export.zip", importkit.FormatJourniv)
//	if !res.Valid {
//	    return fmt.Errorf("rejected: %s", strings.Join(res.Errors, "; "))
//	}
//
// # Extracting
//
// [StreamExtract] is the pipeline. Media can be written straight into
// their final location with MediaDestDir so no second copy pass is needed:
//
//	res, err := importkit.StreamExtract(ctx, "export.zip", importkit.ExtractOptions{
//	    StagingDir:    "/tmp/import-42",
//	    MediaDestDir:  "/data/media/user-7",
//	    Format:        importkit.FormatJourniv,
//	    Policy:        importkit.DefaultPolicy(),
//	    ValidateMedia: true,
//	    Progress: func(processed, total int) error {
//	        log.Printf("%d/%d", processed, total)
//	        return nil
//	    },
//	})
//	if importkit.IsUnsafePath(err) {
//	    // hostile archive
//	}
//
// [Preflight] checks free disk space and write access for the same options
// before a long extraction starts. It is opt-in.
//
// Archive-level problems (corruption, size ceiling, unsafe paths, missing
// data file) abort the run with an [*ExtractError]. A media file that fails
// validation is deleted and recorded in res.Warnings and res.WarningCounts;
// the run continues.
//
// # Policy and Configuration
//
// Limits and allow-lists travel in an explicit [Policy]. [GetConfig] loads
// a [Config] from BEAVER_IMPORTKIT_* environment variables and
// [Config.Policy] turns it into a Policy. [LoadPolicyFile] reads one from
// YAML.
//
// # Related Packages
//
//   - filevalidator: content-type detection and the per-file media check
//   - progress: progress sinks and the throttled job-tracker wrapper
//   - jobstore: a GORM-backed job record implementing the tracker
//   - metrics: Prometheus collectors for extraction runs
//   - logging: zerolog setup shared by the command
//   - cmd/importkit: the command-line front end
package importkit
