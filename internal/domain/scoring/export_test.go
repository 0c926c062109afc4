package scoring

// Percentage exposes percentage for tests.
var Percentage = percentage
