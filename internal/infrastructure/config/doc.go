// Package config loads and validates the homink daemon configuration.
//
// Configuration comes from a YAML file with hardcoded defaults applied
// first and HOMINK_* environment variables applied last. Validation is
// deliberately strict: the sensor declaration set is fixed for the
// process lifetime, so every malformed declaration (duplicate identity,
// unknown kind, missing threshold) is a startup failure rather than a
// runtime surprise.
package config
