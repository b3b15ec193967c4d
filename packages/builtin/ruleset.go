package builtin

import "github.com/cicheck/cicheck/packages/core/ruleset"

// YAML is the default ruleset in its file form. `cicheck init` writes it out
// verbatim so projects can start from the built-in checks and edit from there.
const YAML = `version: 1
name: gradle ci workflow checks
targets:
  - file: .github/workflows/ci.yml
    checks:
      - name: workflow is valid YAML
        ac: AC-1.2.1
        validYaml: true
      - name: triggers on push
        ac: AC-1.2.1
        contains: "push:"
      - name: push trigger targets main
        ac: AC-1.2.1
        contains: "branches: [main]"
      - name: triggers on pull_request
        ac: AC-1.2.1
        contains: "pull_request:"
      - name: uses setup-java v4
        ac: AC-1.2.1
        contains: "actions/setup-java@v4"
      - name: java 21 configured
        ac: AC-1.2.1
        pattern: "java-version:\\s*'?21'?"
      - name: temurin distribution
        ac: AC-1.2.1
        contains: "distribution: 'temurin'"
      - name: gradle caching enabled
        ac: AC-1.2.4
        contains: "gradle/actions/setup-gradle@v4"
      - name: runs spotlessCheck
        ac: AC-1.2.2
        contains: "./gradlew spotlessCheck"
      - name: runs clean build
        ac: AC-1.2.2
        contains: "./gradlew clean build"
      - name: generates jacoco report
        ac: AC-1.2.2
        contains: "./gradlew jacocoTestReport"
      - name: uploads artifacts with upload-artifact v4
        ac: AC-1.2.2
        contains: "actions/upload-artifact@v4"
      - name: publishes jacoco-report artifact
        ac: AC-1.2.2
        contains: "jacoco-report"
      - name: artifact path points at jacoco output
        ac: AC-1.2.2
        contains: "build/reports/jacoco/test/"
      - name: artifact retention is 30 days
        ac: AC-1.2.2
        contains: "retention-days: 30"
      - name: gradle build cache enabled
        ac: AC-1.2.4
        contains: "--build-cache"
      - name: steps run in pipeline order
        ac: AC-1.2.2
        order:
          - "Checkout code"
          - "Set up Java"
          - "Setup Gradle"
          - "spotlessCheck"
          - "clean build"
          - "jacocoTestReport"
          - "upload-artifact"
  - file: sonar-project.properties
    checks:
      - name: sonar project key
        ac: AC-1.2.3
        contains: "sonar.projectKey=tech-support"
      - name: sonar host is sonarcloud
        ac: AC-1.2.3
        contains: "sonar.host.url=https://sonarcloud.io"
      - name: jacoco xml report path configured
        ac: AC-1.2.3
        contains: "sonar.coverage.jacoco.xmlReportPaths"
      - name: report path names jacocoTestReport.xml
        ac: AC-1.2.3
        contains: "jacocoTestReport.xml"
  - file: build.gradle
    checks:
      - name: sonarqube plugin applied
        ac: AC-1.2.3
        contains: "id 'org.sonarqube' version '6.0.1.5171'"
`

// Default parses the built-in ruleset. The YAML is a compile-time constant,
// so an error here means the shipped ruleset itself is broken.
func Default() (*ruleset.Ruleset, error) {
	return ruleset.Parse([]byte(YAML))
}
