package mcpserver

// StorageFormatURI is the resource describing how months are stored.
const StorageFormatURI = "tempus://storage-format"

// StorageFormat documents the persisted month layout for LLM consumers that
// read or repair data files directly.
const StorageFormat = `# Tempus Storage Format

Each calendar month is one JSON document stored under the key
"{year}/{monthIndex}", where monthIndex is zero-based (January is 0).
With the filesystem backend the key maps to "{root}/{year}/{monthIndex}.json".

` + "```" + `json
{
  "checkings": [
    {"datetime": "2018-03-02T08:30:00.000Z", "direction": 1},
    {"datetime": "2018-03-02T17:00:00.000Z", "direction": 2}
  ],
  "dayInfos": [
    {"day": 5, "absence": "holiday", "tag": ""}
  ]
}
` + "```" + `

## Rules

1. **datetime** is an RFC 3339 timestamp. Tempus writes UTC with millisecond
   precision and reads any offset.
2. **direction** is 0 (not set), 1 (in) or 2 (out).
3. Checkings may be in any order and are bucketed by local date.
4. **dayInfos** is optional; "day" is the day of the month starting at 1.
5. Settings live under the key "settings" as {"firstDayOfWeek": 0..6},
   where 0 is Sunday.

## Durations

A day's worked time pairs each arrival with the departure that follows it.
A session left open at midnight is split: the first day gets a synthetic
departure at 23:59:59.999 and the next day a synthetic arrival at 00:00.
`
