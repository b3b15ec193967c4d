// Package builtin ships the default ruleset cicheck falls back to when a
// repository has no ruleset file of its own.
//
// The default ruleset validates a Gradle-based GitHub Actions setup: the CI
// workflow's triggers, Java toolchain, Gradle caching, build steps and their
// order, JaCoCo artifact publishing, the SonarCloud scanner properties, and
// the sonarqube plugin declaration in build.gradle.
package builtin
