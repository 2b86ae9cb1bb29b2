// Package export turns aligned transcripts into downloadable files (plain
// text, JSON and PDF) and optionally stores them in object storage under
// "<prefix>/<yyyy>/<mm>/<uuid>.<ext>".
package export
