// Command arsip is the letter archive.
//
// Usage:
//
//	arsip repl    [config flags]          interactive shell
//	arsip serve   [config flags]          JSON HTTP API
//	arsip export  [config flags]          CSV of all letters
//	arsip backup  [upload] [config flags] JSON backup, optionally to S3
//	arsip restore [config flags] <file>   replace everything from a backup
//
// Configuration comes from built-in defaults, a JSON or YAML file given
// with -c, ARSIP_* environment variables and flags, in that order. serve
// refuses to start until a JWT secret other than the default is set.
package main
