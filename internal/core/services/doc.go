// Package services implements the application core: the profile
// processing pipeline and question answering over built sessions.
package services
