// Package devserver implements the dev server service: one long-lived
// process (the backend ASGI server or the frontend bundler) running inside a
// named session with output teed to a per-role log file, plus an HTTP health
// probe against its listen port.
package devserver
