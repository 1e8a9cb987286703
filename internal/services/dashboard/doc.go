// Package dashboard serves per-role statistic cards for the obstetric care
// unit and keeps their displayed values current.
//
// The role table is a fixed, ordered configuration. Only the value behind a
// stat key ever changes; updates arrive over HTTP or the Redis feed and are
// pushed to connected browsers.
package dashboard
