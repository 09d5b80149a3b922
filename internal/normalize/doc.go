// Package normalize turns loosely typed tool arguments into the exact shapes
// the EmailBison REST API expects.
//
// The API mixes several conventions: list endpoints take a JSON body even on
// GET, simple statistics endpoints take camelCase query parameters, nested
// filters can be written as dotted keys ("filters.lead_campaign_status") and
// the CSV import wants a multipart form with a JSON string inside. Every
// function in this package is pure and never returns an error; values of
// unexpected types are stringified.
package normalize
