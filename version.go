// Package nestling scaffolds aiogram Telegram bot projects.
package nestling

// Version is the current nestling release.
const Version = "0.1.0"
