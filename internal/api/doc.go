// Package api serves race sustainability analysis over HTTP with chi.
//
// Routes:
//
//	GET /api/v1/health
//	GET /api/v1/races/{race}/drivers
//	GET /api/v1/races/{race}/laps?driver=
//	GET /api/v1/races/{race}/compare?driver1=&driver2=
//	GET /metrics
//
// {race} is a file base name inside the data directory. "Monza Grand Prix"
// resolves to Monza Grand Prix.csv, Monza_Grand_Prix.csv or the .xlsx
// variants, in that order. Errors are rendered as APIError JSON bodies.
package api
