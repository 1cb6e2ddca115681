package records

// bundleSchema is the JSON Schema for input bundles. It checks structure and
// the non-negativity constraints of numeric fields; additional properties are
// allowed everywhere so that adapters may carry extra fields the engine
// ignores.
const bundleSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["period"],
  "properties": {
    "period": {
      "type": "object",
      "required": ["start", "end"],
      "properties": {
        "start": {"type": "string", "format": "date-time"},
        "end": {"type": "string", "format": "date-time"}
      }
    },
    "issues": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "status", "created_at"],
        "properties": {
          "key": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "status": {"type": "string", "enum": ["todo", "in_progress", "review", "done"]},
          "story_points": {"type": "number", "minimum": 0},
          "created_at": {"type": "string", "format": "date-time"},
          "resolved_at": {"type": "string", "format": "date-time"},
          "assignee": {"type": "string"}
        }
      }
    },
    "commits": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["sha", "author", "timestamp"],
        "properties": {
          "sha": {"type": "string", "minLength": 1},
          "author": {"type": "string"},
          "timestamp": {"type": "string", "format": "date-time"},
          "lines_added": {"type": "integer", "minimum": 0},
          "lines_removed": {"type": "integer", "minimum": 0},
          "message": {"type": "string"}
        }
      }
    },
    "pull_requests": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "author", "created_at"],
        "properties": {
          "id": {"type": "integer"},
          "author": {"type": "string"},
          "reviewers": {"type": "array", "items": {"type": "string"}},
          "comment_count": {"type": "integer", "minimum": 0},
          "created_at": {"type": "string", "format": "date-time"},
          "merged_at": {"type": "string", "format": "date-time"},
          "source_branch": {"type": "string"},
          "title": {"type": "string"},
          "commits": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`
