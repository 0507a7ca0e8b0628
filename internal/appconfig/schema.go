package appconfig

// configSchema describes the shape of config.json. Unknown keys are rejected
// so typos surface at startup instead of silently falling back to defaults.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["councilModels", "chairmanModel"],
  "properties": {
    "councilModels": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "chairmanModel": {"type": "string", "minLength": 1},
    "openrouterApiKey": {"type": "string"},
    "timeout": {"type": "integer", "minimum": 1},
    "dataDir": {"type": "string"},
    "listenAddr": {"type": "string"},
    "allowedOrigins": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "logFile": {"type": "string"},
    "debug": {"type": "boolean"}
  }
}`
