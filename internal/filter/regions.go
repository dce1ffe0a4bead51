package filter

// regionAliases maps a region name to the sub-region names it covers in
// location filters. This is static configuration, not user data: a filter
// for "Uttarakhand" should surface listings tagged only with a town.
var regionAliases = map[string][]string{
	"uttarakhand": {
		"nainital",
		"bhimtal",
		"sattal",
		"naukuchiatal",
		"mukteshwar",
		"haldwani",
		"almora",
		"ranikhet",
		"bhowali",
		"ramgarh",
		"dehradun",
		"mussoorie",
		"rishikesh",
		"haridwar",
	},
}
