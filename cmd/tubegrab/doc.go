// Package main hosts the tubegrab CLI entrypoint and command graph.
//
// The root command doubles as fetch: `tubegrab --mp3 <url>` acquires one video
// or every entry of a playlist into the destination directory. Supporting
// commands update the downloader, report tool readiness, and scaffold or show
// configuration. Heavy lifting lives in internal/workflow and its
// collaborators; this package only resolves configuration, wires clients, and
// renders results.
package main
