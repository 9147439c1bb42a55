package templating

// ParseCallForTest exposes parseCall to external tests.
var ParseCallForTest = parseCall
