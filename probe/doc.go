// Package probe builds readiness and liveness checks for the info endpoints:
// the component registry, MongoDB, HTTP dependencies such as the bot
// platform, and arbitrary ping functions.
package probe
