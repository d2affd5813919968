package catalog

// builtin is the stock catalog of widely installed extensions that expose
// a stable web-accessible resource. IDs are Chrome Web Store identifiers.
var builtin = Catalog{
	{ID: "gighmmpiobklfepjocnamgkkbiglidom", ProbePath: "icons/icon24.png", DisplayName: "AdBlock"},
	{ID: "cfhdojbkjhnklbpkdaibdccddilifddb", ProbePath: "icons/abp-32.png", DisplayName: "Adblock Plus"},
	{ID: "gomekmidlodglbbmalcneegieacbdmki", ProbePath: "common/ui/icons/logo-16.png", DisplayName: "Avast Online Security"},
	{ID: "mlomiejdfkolichcflejclcbmpeaniij", ProbePath: "app/images/ghosty.svg", DisplayName: "Ghostery"},
	{ID: "kbfnbcaeplbcioakkpcpgfkobkghlhen", ProbePath: "src/images/icon16.png", DisplayName: "Grammarly"},
	{ID: "bmnlcjabgnpnenekpadlanbbkooimhnj", ProbePath: "img/logo-button.svg", DisplayName: "Honey"},
	{ID: "hdokiejnpimakedhajhdlcegeplioahd", ProbePath: "images/lastpass-icon.png", DisplayName: "LastPass"},
	{ID: "nkbihfbeogaeaoehlefnkodbefgpgknn", ProbePath: "images/icon-128.png", DisplayName: "MetaMask"},
	{ID: "dhdgffkkebhmkfjojejmpbldmpobfkfo", ProbePath: "images/icon128.png", DisplayName: "Tampermonkey"},
	{ID: "cjpalhdlnbpafiamejdnhcphjbkeiagm", ProbePath: "img/icon_128.png", DisplayName: "uBlock Origin"},
}

// Builtin returns a copy of the stock extension catalog. Each call returns
// a fresh slice so callers can never mutate the shared definition.
func Builtin() Catalog {
	c := make(Catalog, len(builtin))
	copy(c, builtin)
	return c
}
