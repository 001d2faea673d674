// Package level measures signal level: RMS, peak, dBFS and the energy of a
// frequency band. The spectral helpers run a Hann-windowed FFT through
// algo-fft and are meant for analysis, not for the audio thread.
package level
