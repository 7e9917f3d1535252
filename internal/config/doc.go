// Package config loads and watches the server configuration file (config.yaml).
//
// Top-level types:
//   - Config{Server, Data, Sim, Advisor} — full config tree parsed from YAML
//   - ServerConfig — http_port
//   - DataConfig — path to the seed dataset JSON
//   - SimConfig — interval, seed
//   - AdvisorConfig — mode (mock|http), endpoint, key_env, header, timeout;
//     Key() resolves the API key from the environment so secrets stay out of
//     the config file
//
// Load(path) reads the YAML file, applies defaults (port 8080, 3s tick,
// mock advisor), then validates required fields and enums.
//
// Watch(ctx, path, apply) reloads the file on every on-disk change and hands
// valid configs to apply; anything that fails to parse is skipped. Atomic
// saves that replace the inode are picked up by re-adding the watch.
package config
