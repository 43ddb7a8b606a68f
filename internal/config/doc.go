// Package config loads and watches the f1sustain configuration file.
//
// Load(path) starts from Defaults() (port 8080, data dir "data", parquet
// export, info-level JSON logs to stdout), overlays the YAML file when a path
// is given, then applies F1S_* environment variables such as
// F1S_SERVER_PORT, F1S_DATA_DIR or F1S_LOGGING_LEVEL, and validates enums.
//
// Watch(ctx, path, logger, onChange) uses fsnotify to reload the file and
// hand the new Config to the server, which swaps its data directory and log
// level in place.
package config
