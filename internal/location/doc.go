// Package location classifies GPS coordinates into folder names.
//
// A Classifier first consults the geocode cache, then the provider chain, and
// reduces the resulting address with a fixed-priority rule list: foreign
// country, US national park, US major city, and finally US state. Anything
// that cannot be resolved is filed under "Unknown" and is not cached, so a
// later run retries it.
package location
