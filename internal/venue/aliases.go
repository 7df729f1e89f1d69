package venue

// DefaultAliases covers the venues the configured sources report most often.
// Deployments extend it through the venues.aliases section of the config file.
var DefaultAliases = Aliases{
	"control":        {"control club", "club control", "control bucuresti", "control club bucuresti"},
	"arenele romane": {"arenele romane bucuresti", "arene romane", "arenele romane parcul carol"},
	"hard rock cafe": {"hard rock cafe bucuresti", "hardrock cafe", "hard rock"},
	"quantic":        {"quantic club", "club quantic", "quantic bucuresti"},
	"expirat":        {"club expirat", "expirat halele carol", "expirat bucuresti"},
	"form space":     {"form space bucuresti", "formspace"},
	"sala palatului": {"sala palatului bucuresti", "palatului"},
	"berariah":       {"beraria h", "berariah bucuresti"},
	"tnb":            {"teatrul national bucuresti", "teatrul national i l caragiale", "teatrul national i l caragiale bucuresti", "national theatre bucharest"},
	"bulandra":       {"teatrul bulandra", "teatrul lucia sturdza bulandra", "bulandra theatre"},
	"teatrul mic":    {"teatrul mic bucuresti", "sala teatrul mic"},
	"arcub":          {"arcub centrul cultural al municipiului bucuresti", "centrul cultural arcub"},
	"mnac":           {"muzeul national de arta contemporana", "mnac bucuresti"},
}
