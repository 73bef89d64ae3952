// Package config loads the command line configuration: a YAML file overlaid
// with SLIDERULE_* environment variables, e.g. SLIDERULE_CLIENT_ORGANIZATION
// or SLIDERULE_LOGGER_LEVEL.
package config
