package metadata

/**
 * @brief Describes a job to be run by the job system.
 */
type JobTask struct {
	/** @brief Used in logs when the job fails. */
	Name string
	/** @brief The work itself. Required. */
	Run func() error
	/** @brief Invoked when Run returns nil. Optional. */
	OnComplete func()
	/** @brief Invoked with the error returned by Run. Optional. */
	OnFailure func(error)
	/** @brief Invoked after OnComplete or OnFailure, in both cases. Optional. */
	OnCompletionCallback func()
}
