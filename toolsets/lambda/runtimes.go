package awslambda

// Runtime catalog as of 2025. Update as AWS retires runtimes:
// https://docs.aws.amazon.com/lambda/latest/dg/lambda-runtimes.html

const (
	statusDeprecated     = "DEPRECATED"
	statusApproachingEOL = "APPROACHING_EOL"
)

var deprecatedRuntimes = map[string]string{
	"python2.7":      "Deprecated since July 2022",
	"python3.6":      "Deprecated since July 2022",
	"python3.7":      "Deprecated since December 2023",
	"nodejs":         "Deprecated (legacy)",
	"nodejs4.3":      "Deprecated since April 2020",
	"nodejs4.3-edge": "Deprecated since April 2020",
	"nodejs6.10":     "Deprecated since August 2019",
	"nodejs8.10":     "Deprecated since March 2020",
	"nodejs10.x":     "Deprecated since July 2021",
	"nodejs12.x":     "Deprecated since March 2023",
	"nodejs14.x":     "Deprecated since December 2023",
	"nodejs16.x":     "Deprecated since June 2024",
	"ruby2.5":        "Deprecated since July 2021",
	"ruby2.7":        "Deprecated since December 2023",
	"java8":          "Deprecated (Amazon Linux 1) - use java8.al2",
	"dotnetcore1.0":  "Deprecated since July 2019",
	"dotnetcore2.0":  "Deprecated since May 2019",
	"dotnetcore2.1":  "Deprecated since January 2022",
	"dotnetcore3.1":  "Deprecated since April 2023",
	"dotnet5.0":      "Deprecated since May 2022",
	"dotnet6":        "Deprecated since November 2024",
	"go1.x":          "Deprecated since January 2024 - use provided.al2",
}

var approachingEOLRuntimes = map[string]string{
	"nodejs18.x": "EOL expected 2025",
	"python3.8":  "EOL expected 2025",
	"python3.9":  "EOL expected 2026",
	"java11":     "EOL expected 2025",
	"dotnet7":    "EOL expected 2025",
}

var supportedRuntimes = []string{
	"python3.13", "python3.12", "python3.11", "python3.10",
	"nodejs22.x", "nodejs20.x",
	"java21", "java17",
	"ruby3.3", "ruby3.2",
	"dotnet8",
	"provided.al2023", "provided.al2",
}

func deprecationStatus(runtime string) string {
	if _, ok := deprecatedRuntimes[runtime]; ok {
		return statusDeprecated
	}
	if _, ok := approachingEOLRuntimes[runtime]; ok {
		return statusApproachingEOL
	}
	return ""
}
