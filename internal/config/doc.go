// Package config loads the dashboard configuration.
//
// Values are resolved in this order, later sources overriding earlier ones:
//
//	1. Default()
//	2. config.yaml, configs/config.yaml, or the file named by BIKEPULSE_CONFIG_FILE
//	3. Environment variables, after loading an optional .env file
//
// Environment variables follow the pattern BIKEPULSE_<SECTION>_<FIELD>:
//
//	BIKEPULSE_SERVER_PORT=8080
//	BIKEPULSE_DATA_DAILY_PATH=dashboard/cleaned_day_data.csv
//	BIKEPULSE_DATA_HOURLY_PATH=dashboard/cleaned_hour_data.csv
//	BIKEPULSE_LOGGING_LEVEL=debug
//	BIKEPULSE_SNAPSHOT_EXEC_PATH=/usr/bin/chromium
//
// Validate reports every invalid field at once rather than stopping at the first.
package config
